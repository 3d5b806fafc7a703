package services

import (
	"context"
	"sort"

	"billed/internal/core"
	"billed/internal/log"
	"billed/internal/session"
	"billed/internal/store"
)

// DisplayBill is a bill prepared for the list view: the short date and
// status labels are precomputed, with the raw stored values kept as
// fallback when the date never parsed.
type DisplayBill struct {
	core.Bill
	DisplayDate   string `json:"displayDate"`
	DisplayStatus string `json:"displayStatus"`

	sortKey string
}

// BillListService fetches an employee's bill collection and prepares it
// for display. A nil lister is tolerated: some views legitimately run
// store-less and get an empty list instead of an error.
type BillListService struct {
	lister  store.BillLister
	session session.Context
	logger  *log.Logger
}

func NewBillListService(lister store.BillLister, sess session.Context, logger *log.Logger) *BillListService {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &BillListService{
		lister:  lister,
		session: sess,
		logger:  logger.WithComponent(log.ComponentBillList),
	}
}

// FetchAndOrder returns the session user's bills sorted by date, most
// recent first. Records whose date fails to parse are kept with the
// raw string as both display value and sort key; a store rejection
// propagates unmodified so the view can render its message in place of
// the list.
func (s *BillListService) FetchAndOrder(ctx context.Context) ([]DisplayBill, error) {
	if s.lister == nil {
		s.logger.WarnContext(ctx, "No bill store configured, returning empty list",
			log.FieldEmail, s.session.Email)
		return []DisplayBill{}, nil
	}

	bills, err := s.lister.List(ctx, s.session.Email)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to fetch bills",
			log.FieldError, err,
			log.FieldEmail, s.session.Email,
			log.FieldOperation, log.OpList)
		return nil, err
	}

	out := make([]DisplayBill, 0, len(bills))
	for _, b := range bills {
		d := DisplayBill{Bill: b, DisplayStatus: b.Status.DisplayStatus()}
		if parsed, perr := core.ParseBillDate(b.Date); perr == nil {
			d.sortKey = core.SortKey(parsed)
			d.DisplayDate = core.FormatShortDate(parsed)
		} else {
			// Corrupted record: keep it, fall back to the stored value.
			d.sortKey = b.Date
			d.DisplayDate = b.Date
			s.logger.DebugContext(ctx, "Keeping bill with unparseable date",
				log.FieldBillKey, b.Key,
				log.FieldBillDate, b.Date)
		}
		out = append(out, d)
	}

	// Descending by canonical date; unparseable dates compare by their
	// raw string. Stable, so equal dates keep store order.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].sortKey > out[j].sortKey
	})

	return out, nil
}
