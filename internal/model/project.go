package model

type Project struct {
	ID               string    `json:"id"`
	CreatedAt        string    `json:"created_at"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Category         string    `json:"category"`
	Impact           string    `json:"impact"`
	TeamSize         int       `json:"team_size"`
	Effort           string    `json:"effort"`
	PeopleInfluenced int       `json:"people_influenced"`
	TypeOfPeople     string    `json:"type_of_people,omitempty"`
	RequiredTools    []string  `json:"required_tools"`
	ActionPlan       []string  `json:"action_plan"`
	Collaboration    string    `json:"collaboration,omitempty"`
	Status           string    `json:"status"`
	Visibility       string    `json:"visibility"`
	AdminNotes       string    `json:"admin_notes,omitempty"`
	VoteCount        int       `json:"vote_count"`
	Creator          ShortUser `json:"creator"`

	IsCreator bool `json:"is_creator,omitempty"`
	IsMember  bool `json:"is_member,omitempty"`
}

const (
	ProjectSortNewest  = "newest"
	ProjectSortUpvotes = "upvotes"
)

type GetProjectsRequest struct {
	Category string `json:"category"`
	Status   string `json:"status"`
	SortBy   string `json:"sort_by"`
	Limit    int    `json:"limit"`
	Cursor   string `json:"cursor"`
}

type GetProjectsResponse struct {
	Projects   []Project `json:"projects"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

type GetProjectRequest struct {
	ID string `json:"id"`
}

type GetProjectResponse struct {
	Project Project `json:"project"`
}

type CreateProjectRequest struct {
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Category         string   `json:"category"`
	Impact           string   `json:"impact"`
	TeamSize         int      `json:"team_size"`
	Effort           string   `json:"effort"`
	PeopleInfluenced int      `json:"people_influenced"`
	TypeOfPeople     string   `json:"type_of_people"`
	RequiredTools    []string `json:"required_tools"`
	ActionPlan       []string `json:"action_plan"`
	Collaboration    string   `json:"collaboration"`
	Visibility       string   `json:"visibility"`
}

type CreateProjectResponse struct {
	Project Project `json:"project"`
}

type UpdateProjectRequest struct {
	ProjectID        string `json:"project_id"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	Category         string `json:"category"`
	Impact           string `json:"impact"`
	TeamSize         int    `json:"team_size"`
	Effort           string `json:"effort"`
	PeopleInfluenced int    `json:"people_influenced"`
	Status           string `json:"status"`
	Visibility       string `json:"visibility"`
	AdminNotes       string `json:"admin_notes"`
}

type UpdateProjectResponse struct {
	Project Project `json:"project"`
}

type DeleteProjectRequest struct {
	ProjectID string `json:"project_id"`
}

type DeleteProjectResponse struct{}

type JoinProjectRequest struct {
	ProjectID string `json:"project_id"`
}

type JoinProjectResponse struct{}

type LeaveProjectRequest struct {
	ProjectID string `json:"project_id"`
}

type LeaveProjectResponse struct{}

type UpvoteProjectRequest struct {
	ProjectID string `json:"project_id"`
}

type UpvoteProjectResponse struct{}

type ProjectAward struct {
	UserID string `json:"user_id"`
	Points int    `json:"points"`
}

type CompleteProjectRequest struct {
	ProjectID string         `json:"project_id"`
	Awards    []ProjectAward `json:"awards"`
}

type CompleteProjectResponse struct{}

type GetProjectMembersRequest struct {
	ProjectID string `json:"project_id"`
}

type GetProjectMembersResponse struct {
	Members []ShortUser `json:"members"`
}
