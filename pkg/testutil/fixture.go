package testutil

import (
	"context"
	"time"

	"github.com/chance-app/backend/internal/entity"
	"github.com/chance-app/backend/internal/repository"
)

var (
	User1 = entity.User{
		Base:      entity.Base{ID: "user1"},
		Email:     "user1@example.com",
		Username:  "alice_1234",
		FirstName: "Alice",
		LastName:  "Nguyen",
		Role:      entity.RoleAdmin,
	}

	User2 = entity.User{
		Base:      entity.Base{ID: "user2"},
		Email:     "user2@example.com",
		Username:  "bob_5678",
		FirstName: "Bob",
		LastName:  "Tran",
		Role:      entity.RoleUser,
	}

	User3 = entity.User{
		Base:      entity.Base{ID: "user3"},
		Email:     "user3@example.com",
		Username:  "carol_9999",
		FirstName: "Carol",
		Role:      entity.RoleUser,
	}

	Project1 = entity.Project{
		Base:             entity.Base{ID: "user2_project1"},
		CreatedBy:        User2.ID,
		Title:            "Community Garden",
		Description:      "A garden for the neighborhood",
		Category:         "environment",
		Impact:           "Less food waste",
		TeamSize:         4,
		PeopleInfluenced: 200,
		Status:           entity.ProjectStatusOpen,
		Visibility:       entity.VisibilityPublic,
	}

	Heartbeat1 = entity.Heartbeat{
		Base:       entity.Base{ID: "user2_heartbeat1"},
		UserID:     User2.ID,
		Content:    "Planted the first row of tomatoes today",
		Visibility: entity.VisibilityPublic,
	}
)

func CreateFixtureDb(ctx context.Context) {
	InsertUsers(ctx)
	InsertProjects(ctx)
	InsertHeartbeats(ctx)
}

func InsertUsers(ctx context.Context) {
	userRepo := repository.NewUserRepository()

	for _, user := range []entity.User{User1, User2, User3} {
		user := user
		if err := userRepo.Create(ctx, &user); err != nil {
			panic(err)
		}
	}
}

func InsertProjects(ctx context.Context) {
	projectRepo := repository.NewProjectRepository()
	projectMemberRepo := repository.NewProjectMemberRepository()

	project := Project1
	if err := projectRepo.Create(ctx, &project); err != nil {
		panic(err)
	}

	// The creator is always a member of their own project.
	err := projectMemberRepo.Upsert(ctx, &entity.ProjectMember{
		ProjectID: Project1.ID,
		UserID:    Project1.CreatedBy,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	})
	if err != nil {
		panic(err)
	}
}

func InsertHeartbeats(ctx context.Context) {
	heartbeatRepo := repository.NewHeartbeatRepository()

	heartbeat := Heartbeat1
	if err := heartbeatRepo.Create(ctx, &heartbeat); err != nil {
		panic(err)
	}
}
