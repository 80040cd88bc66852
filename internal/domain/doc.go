// Package domain contains the core entities of the accounts service: the
// Account, the PendingEmailChange staged by an email change request, the
// field-scoped FieldError returned by lifecycle operations and the ordered
// validation rules applied to account fields.
//
// Types here are independent of storage and transport.
package domain
