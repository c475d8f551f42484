package models

import (
	"time"

	"github.com/magabrotheeeer/scoring-api/internal/validation"
)

var clientsInterestsSchema = validation.NewSchema(MethodClientsInterests,
	validation.Slot{Name: "client_ids", Field: validation.ClientIDs{}, Required: true, Nullable: false},
	validation.Slot{Name: "date", Field: validation.Date{}, Required: false, Nullable: true},
)

// ClientsInterestsRequest - аргументы метода clients_interests.
type ClientsInterestsRequest struct {
	ClientIDs []int
	Date      *time.Time
}

// ParseClientsInterestsRequest проверяет аргументы clients_interests.
func ParseClientsInterestsRequest(args map[string]any) (*ClientsInterestsRequest, error) {
	v, err := clientsInterestsSchema.Validate(args)
	if err != nil {
		return nil, err
	}
	req := &ClientsInterestsRequest{ClientIDs: v.Ints("client_ids")}
	if d, ok := v.Time("date"); ok {
		req.Date = &d
	}
	return req, nil
}
