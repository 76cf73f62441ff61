// Package service implements the application use-cases over the relation,
// fetch, and authorization layers. Services are stateless; the per-request
// Authorizer arrives as an argument on every guarded operation.
package service

import (
	appErrors "github.com/warin-dev/sis-api/pkg/errors"
)

func invalidPayload(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrInvalidRequest.Code, appErrors.ErrInvalidRequest.Status, message)
}
