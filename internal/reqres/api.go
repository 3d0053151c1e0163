package reqres

import (
	"context"
	"fmt"
	"net/http"

	"apicontract/internal/contract"
	"apicontract/internal/spec"
)

// API issues one contract call per method. Every method returns the raw
// response alongside the typed record so tests can also assert by path.
type API struct {
	client *contract.Client
}

// NewAPI wraps client.
func NewAPI(client *contract.Client) *API {
	return &API{client: client}
}

// ListUsers fetches one page of users and expects 200.
func (a *API) ListUsers(ctx context.Context, page int) (UserPage, *contract.Response, error) {
	resp, err := a.client.Do(ctx, spec.OK200(), contract.Get(fmt.Sprintf("%s?page=%d", usersPath, page)))
	if err != nil {
		return UserPage{}, resp, err
	}
	out, err := contract.Decode[UserPage](resp, "")
	return out, resp, err
}

// Register posts reg and expects the given status: 200 for the success
// variant, 400 for the failure variant.
func (a *API) Register(ctx context.Context, reg Registration, expect spec.ResponseSpec) (RegistrationResult, *contract.Response, error) {
	resp, err := a.client.Do(ctx, expect, contract.Post(registerPath, reg))
	if err != nil {
		return RegistrationResult{}, resp, err
	}
	out, err := contract.Decode[RegistrationResult](resp, "")
	return out, resp, err
}

// DeleteUser deletes a user and expects 204 with an empty body.
func (a *API) DeleteUser(ctx context.Context, id int) (*contract.Response, error) {
	return a.client.Do(ctx, spec.Unique(http.StatusNoContent), contract.Delete(fmt.Sprintf("%s/%d", usersPath, id)))
}

// UpdateUser replaces a user and expects 200.
func (a *API) UpdateUser(ctx context.Context, id int, upd UserUpdate) (TimeUpdateResult, *contract.Response, error) {
	resp, err := a.client.Do(ctx, spec.OK200(), contract.Put(fmt.Sprintf("%s/%d", usersPath, id), upd))
	if err != nil {
		return TimeUpdateResult{}, resp, err
	}
	out, err := contract.Decode[TimeUpdateResult](resp, "")
	return out, resp, err
}

// ListResources fetches the unknown-resource listing and expects 200.
func (a *API) ListResources(ctx context.Context) ([]ColorEntry, *contract.Response, error) {
	resp, err := a.client.Do(ctx, spec.OK200(), contract.Get(resourcesPath))
	if err != nil {
		return nil, resp, err
	}
	out, err := contract.Decode[[]ColorEntry](resp, "data")
	return out, resp, err
}
