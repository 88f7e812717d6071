package model

type User struct {
	ID             string `json:"id"`
	CreatedAt      string `json:"created_at,omitempty"`
	Email          string `json:"email,omitempty"`
	Username       string `json:"username"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	WhatsappNumber string `json:"whatsapp_number,omitempty"`
	Bio            string `json:"bio,omitempty"`
	School         string `json:"school,omitempty"`
	Instagram      string `json:"instagram,omitempty"`
	ProfilePicture string `json:"profile_picture,omitempty"`
	Role           string `json:"role,omitempty"`
	Influence      int    `json:"influence"`
	IsVerified     bool   `json:"is_verified"`
}

// ShortUser is the public summary attached to projects, members, and
// comments.
type ShortUser struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	ProfilePicture string `json:"profile_picture,omitempty"`
}

type GetMeRequest struct {
	UserID string `json:"user_id"`
}

type GetMeResponse struct {
	User User `json:"user"`
}

type UpdateMeRequest struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Bio            string `json:"bio"`
	School         string `json:"school"`
	Instagram      string `json:"instagram"`
	WhatsappNumber string `json:"whatsapp_number"`
}

type UpdateMeResponse struct {
	User User `json:"user"`
}

type GetMyProjectsRequest struct {
	Limit  int    `json:"limit"`
	Cursor string `json:"cursor"`
}

type GetMyProjectsResponse struct {
	Projects   []Project `json:"projects"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

type GetMyHeartbeatsRequest struct {
	Limit  int    `json:"limit"`
	Cursor string `json:"cursor"`
}

type GetMyHeartbeatsResponse struct {
	Heartbeats []Heartbeat `json:"heartbeats"`
	NextCursor string      `json:"next_cursor,omitempty"`
}

type UploadAvatarRequest struct {
	// Avatar data is included in form-data.
}

type UploadAvatarResponse struct {
	ProfilePicture string `json:"profile_picture"`
}
