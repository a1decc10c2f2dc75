package apikeys

// CreateKeyRequest is the payload for issuing a new API key.
type CreateKeyRequest struct {
	Name        string   `json:"name" validate:"required,min=1,max=100"`
	Permissions []string `json:"permissions" validate:"required,min=1,dive,oneof=deposit transfer read"`
	Expiry      string   `json:"expiry" validate:"required,oneof=1H 1D 1M 1Y"`
}

// RolloverRequest is the payload for rolling an expired key over to a fresh
// secret.
type RolloverRequest struct {
	Expiry string `json:"expiry" validate:"required,oneof=1H 1D 1M 1Y"`
}
