package domain

import (
	"context"

	"github.com/chance-app/backend/internal/entity"
	"github.com/chance-app/backend/internal/repository"
	"github.com/chance-app/backend/pkg/errorx"
	"github.com/chance-app/backend/pkg/xcontext"
)

// checkPaginationLimit normalizes a client-provided page size against the
// api server configs.
func checkPaginationLimit(ctx context.Context, limit int) (int, error) {
	apiCfg := xcontext.Configs(ctx).ApiServer
	if limit == 0 {
		return apiCfg.DefaultLimit, nil
	}

	if limit < 0 {
		return 0, errorx.New(errorx.BadRequest, "Limit must be positive")
	}

	if limit > apiCfg.MaxLimit {
		return 0, errorx.New(errorx.BadRequest, "Exceed the maximum of limit (%d)", apiCfg.MaxLimit)
	}

	return limit, nil
}

func usersByID(
	ctx context.Context, userRepo repository.UserRepository, ids []string,
) (map[string]entity.User, error) {
	uniqued := make([]string, 0, len(ids))
	seen := map[string]bool{}
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			uniqued = append(uniqued, id)
		}
	}

	users, err := userRepo.GetByIDs(ctx, uniqued)
	if err != nil {
		return nil, err
	}

	result := map[string]entity.User{}
	for _, u := range users {
		result[u.ID] = u
	}

	return result, nil
}
