package repositories

import (
	"context"

	"github.com/coursebank/quiz-service/internal/models"
)

// UserRepository provides read access to identity-service users (this service
// is not the owner of user data).
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]*models.User, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
}
