package certificate

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Request describes the learner and completed entity a certificate is for.
// Scope is "course" or "profession".
type Request struct {
	UserID      uint
	UserName    string
	Scope       string
	EntityID    uint
	EntityTitle string
	CompletedAt time.Time
}

// Issued carries the generated artifact URLs and the certificate number
type Issued struct {
	PdfURL   string
	ImageURL string
	Number   string
}

// Issuer renders and publishes a completion certificate. Implementations
// must be side-effect-free beyond the returned URLs; callers persist the
// record and treat issuance failures as non-fatal.
type Issuer interface {
	Issue(ctx context.Context, req Request) (Issued, error)
}

// CertificateID derives a deterministic certificate identifier from the
// learner, the completed entity and the issuance timestamp.
func CertificateID(userID, entityID uint, issuedAt time.Time) string {
	ts := strings.ToUpper(strconv.FormatInt(issuedAt.UnixMilli(), 36))
	return fmt.Sprintf("ABH-%s-%s-%s", ts, idPart(userID), idPart(entityID))
}

func idPart(id uint) string {
	s := fmt.Sprintf("%04d", id)
	return s[len(s)-4:]
}
