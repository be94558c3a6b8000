package adapter

import "context"

// Mailer delivers transactional mail. The only mail this system sends is the
// registration verification link.
type Mailer interface {
	SendVerificationEmail(ctx context.Context, to, token string) error
}
