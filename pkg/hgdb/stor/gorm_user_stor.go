package stor

import (
	"errors"
	"fmt"

	"github.com/gosimple/slug"
	"github.com/hashicorp/go-uuid"
	"github.com/heritage-graph/sattal/pkg/hgdb/hgmodel"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type GormUserStor struct {
	db *gorm.DB
}

func NewGormUserStor(db *gorm.DB) *GormUserStor {
	return &GormUserStor{db: db}
}

// CreateUser stores a new user. The password is bcrypt hashed before it is
// written; the API token is stored as-is so it can be looked up by the
// auth middleware.
func (s *GormUserStor) CreateUser(user *hgmodel.User) (*hgmodel.User, error) {
	var err error

	if user.UUID, err = uuid.GenerateUUID(); err != nil {
		return nil, err
	}

	if user.ApiToken == "" {
		if user.ApiToken, err = uuid.GenerateUUID(); err != nil {
			return nil, err
		}
	}

	if user.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.Password = string(hashed)
	}

	slugOfName := slug.Make(user.Name)
	user.Slug = slugOfName
	slugNext := 1

	err = WithTxRetry(s.db, func(tx *gorm.DB) error {
		for {
			err := tx.Create(user).Error
			switch {
			case err == nil:
				return nil
			case errors.Is(err, gorm.ErrDuplicatedKey):
				user.Slug = fmt.Sprintf("%s-%d", slugOfName, slugNext)
				slugNext = slugNext + 1
			default:
				return err
			}
		}
	})

	if err != nil {
		return nil, err
	}

	return user, nil
}

func (s *GormUserStor) GetUserBySlug(userSlug string) (*hgmodel.User, error) {
	var user hgmodel.User
	if err := s.db.Where("slug = ?", userSlug).First(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

func (s *GormUserStor) GetUserByEmail(email string) (*hgmodel.User, error) {
	var user hgmodel.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

func (s *GormUserStor) GetUserByAPIToken(apitoken string) (*hgmodel.User, error) {
	var user hgmodel.User
	if err := s.db.Where("api_token = ?", apitoken).First(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

func (s *GormUserStor) VerifyUserPassword(user *hgmodel.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) == nil
}
