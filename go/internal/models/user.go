package models

// Friend is an entry of the acting user's friend directory
type Friend struct {
	ID          string `json:"id" yaml:"id"`
	DisplayName string `json:"display_name" yaml:"display_name"`
	AvatarRef   string `json:"avatar_ref,omitempty" yaml:"avatar_ref"`
}
