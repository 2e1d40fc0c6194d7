package replace_branches

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-SportHub/internal/domain"
)

// validationErrors собирает все нарушения в одну ошибку
type validationErrors []string

func (v *validationErrors) add(format string, args ...interface{}) {
	*v = append(*v, fmt.Sprintf(format, args...))
}

func (v validationErrors) err() error {
	if len(v) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(v, "; "))
}

// validateRequest проверяет набор без обращения к БД
func validateRequest(req *Request, maxFileSize int64) error {
	var problems validationErrors

	if len(req.Descriptors) == 0 {
		problems.add("at least one branch is required")
		return problems.err()
	}

	sports := make(map[int64]Descriptor, len(req.Descriptors))
	orders := make(map[int]struct{}, len(req.Descriptors))
	needFile := 0

	for i, d := range req.Descriptors {
		if d.SportID <= 0 {
			problems.add("branches[%d].sportId must be positive", i)
		}
		if d.BranchOrder < domain.MinBranchOrder {
			problems.add("branches[%d].branchOrder must be at least %d", i, domain.MinBranchOrder)
		}
		if _, dup := sports[d.SportID]; dup {
			problems.add("duplicate sportId %d", d.SportID)
		}
		if _, dup := orders[d.BranchOrder]; dup {
			problems.add("duplicate branchOrder %d", d.BranchOrder)
		}
		if d.Certificate != nil && strings.TrimSpace(*d.Certificate) == "" {
			problems.add("branches[%d].certificate must not be empty", i)
		}
		sports[d.SportID] = d
		orders[d.BranchOrder] = struct{}{}
		if d.Certificate == nil {
			needFile++
		}
	}

	if len(req.Files) != needFile {
		problems.add("expected %d certificate files, got %d", needFile, len(req.Files))
	}

	seenFiles := make(map[int64]struct{}, len(req.Files))
	for _, f := range req.Files {
		d, ok := sports[f.SportID]
		switch {
		case !ok:
			problems.add("certificate file for sport %d has no matching branch", f.SportID)
		case d.Certificate != nil:
			problems.add("branch for sport %d references an existing certificate and must not upload a file", f.SportID)
		}
		if _, dup := seenFiles[f.SportID]; dup {
			problems.add("more than one certificate file for sport %d", f.SportID)
		}
		seenFiles[f.SportID] = struct{}{}

		if _, allowed := domain.AllowedCertificateTypes[f.ContentType]; !allowed {
			problems.add("certificate for sport %d has unsupported type %q", f.SportID, f.ContentType)
		}
		if maxFileSize > 0 && f.Size > maxFileSize {
			problems.add("certificate for sport %d exceeds %d bytes", f.SportID, maxFileSize)
		}
	}

	return problems.err()
}

// validateSportsExist проверяет, что все виды спорта есть в справочнике
func validateSportsExist(descriptors []Descriptor, found []*domain.Sport) error {
	known := make(map[int64]struct{}, len(found))
	for _, s := range found {
		known[s.ID] = struct{}{}
	}

	var problems validationErrors
	for _, d := range descriptors {
		if _, ok := known[d.SportID]; !ok {
			problems.add("sport %d does not exist", d.SportID)
		}
	}
	return problems.err()
}

// validateKeptCertificates проверяет, что сохраняемые сертификаты принадлежат тренеру
// и относятся к тому же виду спорта
func validateKeptCertificates(descriptors []Descriptor, existing []*domain.Branch) error {
	bySport := make(map[int64]string, len(existing))
	for _, b := range existing {
		bySport[b.SportID] = b.Certificate
	}

	var problems validationErrors
	for _, d := range descriptors {
		if d.Certificate == nil {
			continue
		}
		current, ok := bySport[d.SportID]
		if !ok || current != *d.Certificate {
			problems.add("certificate %q is not your current certificate for sport %d", *d.Certificate, d.SportID)
		}
	}
	return problems.err()
}
