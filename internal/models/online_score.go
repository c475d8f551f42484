package models

import (
	"time"

	"github.com/magabrotheeeer/scoring-api/internal/validation"
)

var onlineScoreSchema = NewOnlineScoreSchema(time.Now)

// NewOnlineScoreSchema собирает схему online_score; now используется для проверки возраста.
func NewOnlineScoreSchema(now func() time.Time) *validation.Schema {
	return validation.NewSchema(MethodOnlineScore,
		validation.Slot{Name: "first_name", Field: validation.Char{}, Nullable: true},
		validation.Slot{Name: "last_name", Field: validation.Char{}, Nullable: true},
		validation.Slot{Name: "email", Field: validation.Email{}, Nullable: true},
		validation.Slot{Name: "phone", Field: validation.Phone{}, Nullable: true},
		validation.Slot{Name: "birthday", Field: validation.BirthDay{Now: now}, Nullable: true},
		validation.Slot{Name: "gender", Field: validation.Gender{}, Nullable: true},
	).WithRules(validation.AtLeastOnePair(
		[2]string{"phone", "email"},
		[2]string{"first_name", "last_name"},
		[2]string{"gender", "birthday"},
	))
}

// OnlineScoreRequest - аргументы метода online_score.
type OnlineScoreRequest struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Birthday  *time.Time
	Gender    *int

	has []string
}

// ParseOnlineScoreRequest проверяет аргументы online_score, включая правило пар.
func ParseOnlineScoreRequest(args map[string]any) (*OnlineScoreRequest, error) {
	return parseOnlineScore(onlineScoreSchema, args)
}

func parseOnlineScore(schema *validation.Schema, args map[string]any) (*OnlineScoreRequest, error) {
	v, err := schema.Validate(args)
	if err != nil {
		return nil, err
	}
	req := &OnlineScoreRequest{
		FirstName: v.String("first_name"),
		LastName:  v.String("last_name"),
		Email:     v.String("email"),
		Phone:     v.String("phone"),
	}
	if b, ok := v.Time("birthday"); ok {
		req.Birthday = &b
	}
	if g, ok := v.Int("gender"); ok {
		req.Gender = &g
	}
	for _, name := range schema.Fields() {
		if v.Has(name) {
			req.has = append(req.has, name)
		}
	}
	return req, nil
}

// Has возвращает имена непустых полей в порядке объявления.
func (r *OnlineScoreRequest) Has() []string {
	return r.has
}
