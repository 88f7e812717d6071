package model

import (
	"time"

	"github.com/chance-app/backend/internal/entity"
	"github.com/chance-app/backend/pkg/enum"
)

const DefaultTimeLayout string = time.RFC3339Nano

func ConvertUser(user *entity.User, includeSensitive bool) User {
	if user == nil {
		return User{}
	}

	result := User{
		ID:             user.ID,
		CreatedAt:      user.CreatedAt.Format(DefaultTimeLayout),
		Username:       user.Username,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		Bio:            user.Bio,
		School:         user.School,
		Instagram:      user.Instagram,
		ProfilePicture: user.ProfilePicture,
		Influence:      user.Influence,
		IsVerified:     user.IsVerified,
	}

	if includeSensitive {
		result.Email = user.Email
		result.WhatsappNumber = user.WhatsappNumber
		result.Role = enum.ToString(user.Role)
	}

	return result
}

func ConvertShortUser(user *entity.User) ShortUser {
	if user == nil {
		return ShortUser{}
	}

	return ShortUser{
		ID:             user.ID,
		Username:       user.Username,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		ProfilePicture: user.ProfilePicture,
	}
}

func ConvertProject(project *entity.Project, creator *entity.User) Project {
	if project == nil {
		return Project{}
	}

	return Project{
		ID:               project.ID,
		CreatedAt:        project.CreatedAt.Format(DefaultTimeLayout),
		Title:            project.Title,
		Description:      project.Description,
		Category:         project.Category,
		Impact:           project.Impact,
		TeamSize:         project.TeamSize,
		Effort:           project.Effort,
		PeopleInfluenced: project.PeopleInfluenced,
		TypeOfPeople:     project.TypeOfPeople,
		RequiredTools:    []string(project.RequiredTools),
		ActionPlan:       []string(project.ActionPlan),
		Collaboration:    project.Collaboration,
		Status:           enum.ToString(project.Status),
		Visibility:       enum.ToString(project.Visibility),
		AdminNotes:       project.AdminNotes,
		VoteCount:        project.Likes,
		Creator:          ConvertShortUser(creator),
	}
}

func ConvertHeartbeat(heartbeat *entity.Heartbeat, author *entity.User) Heartbeat {
	if heartbeat == nil {
		return Heartbeat{}
	}

	return Heartbeat{
		ID:         heartbeat.ID,
		CreatedAt:  heartbeat.CreatedAt.Format(DefaultTimeLayout),
		Content:    heartbeat.Content,
		Image:      heartbeat.Image,
		Video:      heartbeat.Video,
		Visibility: enum.ToString(heartbeat.Visibility),
		Likes:      heartbeat.Likes,
		Comments:   heartbeat.Comments,
		Author:     ConvertShortUser(author),
	}
}

func ConvertHeartbeatComment(comment *entity.HeartbeatComment, author *entity.User) HeartbeatComment {
	if comment == nil {
		return HeartbeatComment{}
	}

	return HeartbeatComment{
		ID:        comment.ID,
		CreatedAt: comment.CreatedAt.Format(DefaultTimeLayout),
		Content:   comment.Content,
		Likes:     comment.Likes,
		Author:    ConvertShortUser(author),
	}
}
