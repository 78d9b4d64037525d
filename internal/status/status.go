package status

import "errors"

var (
	ErrNotFound      = errors.New("record not found")
	ErrHasReferences = errors.New("record is referenced by existing tickets")

	ErrEventInactive = errors.New("event is not active")
	ErrSoldOut       = errors.New("tickets sold out")
	ErrSalesEnded    = errors.New("ticket sales have ended")

	ErrDuplicateReference = errors.New("payment: external reference already finalized")
	ErrGateway            = errors.New("payment: gateway request failed")
)
