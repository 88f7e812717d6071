package testutil

import (
	"context"
	"reflect"

	"github.com/chance-app/backend/internal/entity"
	"github.com/chance-app/backend/internal/repository"
	"github.com/google/uuid"
)

// SampleUser creates a new user in database with many fields are randomized.
// The sample user can be overwritten by non-zero fields of init.
//
// This function returns the sample user.
func SampleUser(ctx context.Context, init *entity.User) (entity.User, error) {
	userRepo := repository.NewUserRepository()

	id := uuid.NewString()
	sample := &entity.User{
		Base:      entity.Base{ID: id},
		Email:     id + "@example.com",
		Username:  "user_" + id[:8],
		FirstName: "Sample",
		LastName:  "User",
		Role:      entity.RoleUser,
	}

	if init != nil {
		overwriteFields(sample, *init)
	}

	if err := userRepo.Create(ctx, sample); err != nil {
		return *sample, err
	}
	return *sample, nil
}

// SampleProject creates a new project in database with many fields are
// randomized. The sample project can be overwritten by non-zero fields of
// init.
//
// This function returns the sample project.
func SampleProject(ctx context.Context, init *entity.Project) (entity.Project, error) {
	projectRepo := repository.NewProjectRepository()

	sample := &entity.Project{
		Base:             entity.Base{ID: uuid.NewString()},
		CreatedBy:        uuid.NewString(),
		Title:            uuid.NewString(),
		Description:      "A sample project",
		Category:         "environment",
		Impact:           "A big one",
		TeamSize:         3,
		PeopleInfluenced: 100,
		Status:           entity.ProjectStatusOpen,
		Visibility:       entity.VisibilityPublic,
	}

	if init != nil {
		overwriteFields(sample, *init)
	}

	if err := projectRepo.Create(ctx, sample); err != nil {
		return *sample, err
	}
	return *sample, nil
}

// SampleHeartbeat creates a new heartbeat in database. The sample heartbeat
// can be overwritten by non-zero fields of init.
func SampleHeartbeat(ctx context.Context, init *entity.Heartbeat) (entity.Heartbeat, error) {
	heartbeatRepo := repository.NewHeartbeatRepository()

	sample := &entity.Heartbeat{
		Base:       entity.Base{ID: uuid.NewString()},
		UserID:     uuid.NewString(),
		Content:    uuid.NewString(),
		Visibility: entity.VisibilityPublic,
	}

	if init != nil {
		overwriteFields(sample, *init)
	}

	if err := heartbeatRepo.Create(ctx, sample); err != nil {
		return *sample, err
	}
	return *sample, nil
}

func overwriteFields[T any](origin *T, overwrite T) {
	originValue := reflect.ValueOf(origin).Elem()
	overwriteValue := reflect.ValueOf(overwrite)

	for i := 0; i < overwriteValue.NumField(); i++ {
		overwriteField := overwriteValue.Field(i)
		if !overwriteField.IsZero() {
			originValue.Field(i).Set(overwriteField)
		}
	}
}
