package mapper

import (
	"encoding/json"

	"lexi-legal-be/internal/entity"
	"lexi-legal-be/internal/model"

	"gorm.io/datatypes"
)

type UserMapper struct{}

func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

func (m *UserMapper) ToEntity(u *model.User) *entity.User {
	if u == nil {
		return nil
	}

	var profile map[string]interface{}
	if len(u.Profile) > 0 {
		_ = json.Unmarshal(u.Profile, &profile)
	}

	return &entity.User{
		Id:           u.Id,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Salt:         u.Salt,
		IsActive:     u.IsActive,
		Profile:      profile,
		CreatedAt:    u.CreatedAt,
		LastLogin:    u.LastLogin,
	}
}

func (m *UserMapper) ToModel(u *entity.User) *model.User {
	if u == nil {
		return nil
	}

	var profile datatypes.JSON
	if u.Profile != nil {
		raw, err := json.Marshal(u.Profile)
		if err == nil {
			profile = raw
		}
	}

	return &model.User{
		Id:           u.Id,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Salt:         u.Salt,
		IsActive:     u.IsActive,
		Profile:      profile,
		CreatedAt:    u.CreatedAt,
		LastLogin:    u.LastLogin,
	}
}

func (m *UserMapper) ToEntities(users []*model.User) []*entity.User {
	entities := make([]*entity.User, len(users))
	for i, u := range users {
		entities[i] = m.ToEntity(u)
	}
	return entities
}
