package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	invoicedomain "github.com/ledgerlinelabs/ledgerline/internal/invoice/domain"
	"gorm.io/gorm"
)

// NumberAllocator hands out invoice numbers of the form INV-YYYYMM-NNNN,
// where NNNN is a 1-based sequence scoped to the issue month. The sequence
// widens past four digits instead of wrapping.
//
// The month namespace is shared between manually created and recurring
// invoices, so the next value is always derived from the highest persisted
// number for the month, not from any per-schedule counter.
type NumberAllocator struct {
	mu   sync.Mutex
	repo invoicedomain.Repository
}

func NewNumberAllocator(repo invoicedomain.Repository) *NumberAllocator {
	return &NumberAllocator{repo: repo}
}

// Next allocates the next number for the month of issueDate. The
// read-then-increment is serialized by the allocator mutex; callers pass
// the transaction the invoice will be inserted in so the unique index on
// invoice_number backstops any racing writer.
func (a *NumberAllocator) Next(ctx context.Context, tx *gorm.DB, issueDate time.Time) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	prefix := "INV-" + issueDate.Format("200601") + "-"

	last, err := a.repo.MaxNumberWithPrefix(ctx, tx, prefix)
	if err != nil {
		return "", fmt.Errorf("%w: %v", invoicedomain.ErrNumberAllocation, err)
	}

	seq := 1
	if last != "" {
		n, err := parseSequence(last)
		if err != nil {
			return "", err
		}
		seq = n + 1
	}

	return fmt.Sprintf("%s%04d", prefix, seq), nil
}

func parseSequence(number string) (int, error) {
	idx := strings.LastIndex(number, "-")
	if idx < 0 || idx == len(number)-1 {
		return 0, fmt.Errorf("%w: %q", invoicedomain.ErrInvalidInvoiceNumber, number)
	}
	n, err := strconv.Atoi(number[idx+1:])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", invoicedomain.ErrInvalidInvoiceNumber, number)
	}
	return n, nil
}
