package models

// Author is the identity that owns articles. Records are provisioned by
// the external registration flow; this service reads them and only the
// admin surface may upsert.
type Author struct {
	ID          string            `json:"id"`
	Email       string            `json:"email"`
	DisplayName string            `json:"display_name,omitempty"`
	AvatarURL   string            `json:"avatar_url,omitempty"`
	Bio         string            `json:"bio,omitempty"`
	Location    string            `json:"location,omitempty"`
	Website     string            `json:"website,omitempty"`
	SocialLinks map[string]string `json:"social_links,omitempty"`
}

// AuthorSummary is the public slice of an author embedded in article reads.
type AuthorSummary struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

// Summary projects the fields exposed alongside articles.
func (a *Author) Summary() AuthorSummary {
	return AuthorSummary{
		ID:          a.ID,
		DisplayName: a.DisplayName,
		AvatarURL:   a.AvatarURL,
	}
}
