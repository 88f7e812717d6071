package model

type Heartbeat struct {
	ID         string    `json:"id"`
	CreatedAt  string    `json:"created_at"`
	Content    string    `json:"content"`
	Image      string    `json:"image,omitempty"`
	Video      string    `json:"video,omitempty"`
	Visibility string    `json:"visibility"`
	Likes      int       `json:"likes"`
	Comments   int       `json:"comments"`
	Author     ShortUser `json:"author"`
}

type HeartbeatComment struct {
	ID        string    `json:"id"`
	CreatedAt string    `json:"created_at"`
	Content   string    `json:"content"`
	Likes     int       `json:"likes"`
	Author    ShortUser `json:"author"`
}

type GetHeartbeatsRequest struct {
	Limit  int    `json:"limit"`
	Cursor string `json:"cursor"`
}

type GetHeartbeatsResponse struct {
	Heartbeats []Heartbeat `json:"heartbeats"`
	NextCursor string      `json:"next_cursor,omitempty"`
}

type CreateHeartbeatRequest struct {
	Content    string `json:"content"`
	Visibility string `json:"visibility"`
	Image      string `json:"image"`
	Video      string `json:"video"`
}

type CreateHeartbeatResponse struct {
	Heartbeat Heartbeat `json:"heartbeat"`
}

type DeleteHeartbeatRequest struct {
	ID string `json:"id"`
}

type DeleteHeartbeatResponse struct{}

type LikeHeartbeatRequest struct {
	ID string `json:"id"`
}

type LikeHeartbeatResponse struct {
	Liked bool `json:"liked"`
}

type CommentHeartbeatRequest struct {
	HeartbeatID string `json:"heartbeat_id"`
	Content     string `json:"content"`
}

type CommentHeartbeatResponse struct {
	Comment HeartbeatComment `json:"comment"`
}

type DeleteCommentRequest struct {
	ID string `json:"id"`
}

type DeleteCommentResponse struct{}

type LikeCommentRequest struct {
	ID string `json:"id"`
}

type LikeCommentResponse struct {
	Liked bool `json:"liked"`
}

type GetCommentsRequest struct {
	HeartbeatID string `json:"heartbeat_id"`
}

type GetCommentsResponse struct {
	Comments []HeartbeatComment `json:"comments"`
}

type ShareHeartbeatRequest struct {
	HeartbeatID string `json:"heartbeat_id"`
	ShareType   string `json:"share_type"`
}

type ShareHeartbeatResponse struct {
	ShareURL string `json:"share_url"`
}
