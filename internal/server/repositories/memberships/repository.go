// Package memberships provides the repository for the user-to-project and
// user-to-group join records. The account workflow only queries these;
// writes come from ops tooling.
package memberships

import (
	"context"

	"projecthub/internal/server/models"
)

type Repository interface {
	FindProjectMembership(ctx context.Context, userID string, projectID string) (*models.ProjectMembership, error)
	FindGroupMembership(ctx context.Context, userID string, groupID string) (*models.GroupMembership, error)
	AddToProject(ctx context.Context, userID string, projectID string) error
	AddToGroup(ctx context.Context, userID string, groupID string) error
}
