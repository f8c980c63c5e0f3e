package fleetapi

import (
	"context"
	"encoding/json"

	"github.com/velocityrent/rental-portal/internal/core/ports"
)

// Login exchanges credentials for a bearer token. POST /Account/login
func (c *Client) Login(ctx context.Context, email, password string) (token, expiration string, err error) {
	raw, err := c.postJSON(ctx, "/Account/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return "", "", err
	}
	var payload loginPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return "", "", err
	}
	return payload.Token, payload.Expiration, nil
}

// Register creates a customer account. POST /Account/register
func (c *Client) Register(ctx context.Context, input ports.RegisterInput) (string, error) {
	raw, err := c.postJSON(ctx, "/Account/register", "", map[string]string{
		"email":           input.Email,
		"password":        input.Password,
		"confirmPassword": input.ConfirmPassword,
		"fullName":        input.FullName,
		"phoneNumber":     input.PhoneNumber,
		"address":         input.Address,
	})
	if err != nil {
		return "", err
	}
	var payload messagePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return "", err
	}
	return payload.Message, nil
}

// AssignRole grants a role to an account. POST /Account/assign-role
func (c *Client) AssignRole(ctx context.Context, email, role string) (string, error) {
	raw, err := c.postJSON(ctx, "/Account/assign-role", "", map[string]string{
		"email": email,
		"role":  role,
	})
	if err != nil {
		return "", err
	}
	var payload messagePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return "", err
	}
	return payload.Message, nil
}
