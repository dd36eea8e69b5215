package domain

import "strings"

// LineItemKind is the closed set of line item tags.
type LineItemKind string

const (
	KindRent     LineItemKind = "RENT"
	KindElectric LineItemKind = "ELECTRIC"
	KindWater    LineItemKind = "WATER"
	KindFixed    LineItemKind = "FIXED"
	KindDebt     LineItemKind = "DEBT"
	KindExtra    LineItemKind = "EXTRA"
	KindDiscount LineItemKind = "DISCOUNT"
)

// Bucket is the charge aggregate a line item kind folds into.
type Bucket int

const (
	BucketRoom Bucket = iota
	BucketService
	BucketDebt
	BucketExtra
	BucketDiscount
)

// kindBuckets is the single classification path from kind tag to aggregate
// bucket. An unlisted kind is rejected at validation, never silently dropped.
var kindBuckets = map[LineItemKind]Bucket{
	KindRent:     BucketRoom,
	KindElectric: BucketService,
	KindWater:    BucketService,
	KindFixed:    BucketService,
	KindDebt:     BucketDebt,
	KindExtra:    BucketExtra,
	KindDiscount: BucketDiscount,
}

// BucketFor resolves a kind's aggregate bucket.
func BucketFor(kind LineItemKind) (Bucket, bool) {
	bucket, ok := kindBuckets[kind]
	return bucket, ok
}

// Aggregates are the derived charge buckets of an invoice.
type Aggregates struct {
	RoomCharge    int64
	ServiceCharge int64
	ExtraCharge   int64
	PreviousDebt  int64
	Discount      int64
	TotalAmount   int64
}

// AggregateLineItems folds line items into their buckets through the dispatch
// table. A DISCOUNT item carries a negative amount in the sequence; its
// magnitude is stored positively in the discount aggregate. The total is
// always the plain sum of amounts.
func AggregateLineItems(items []LineItem) (Aggregates, error) {
	var agg Aggregates
	for _, item := range items {
		bucket, ok := BucketFor(item.Kind)
		if !ok {
			return Aggregates{}, ErrInvalidLineItem
		}
		switch bucket {
		case BucketRoom:
			agg.RoomCharge += item.Amount
		case BucketService:
			agg.ServiceCharge += item.Amount
		case BucketDebt:
			agg.PreviousDebt += item.Amount
		case BucketExtra:
			agg.ExtraCharge += item.Amount
		case BucketDiscount:
			agg.Discount += -item.Amount
		}
		agg.TotalAmount += item.Amount
	}
	return agg, nil
}

// ValidateLineItem checks the fields every stored line item must carry.
func ValidateLineItem(item LineItem) error {
	if _, ok := BucketFor(item.Kind); !ok {
		return ErrInvalidLineItem
	}
	if strings.TrimSpace(item.Name) == "" {
		return ErrInvalidLineItem
	}
	if item.Kind == KindDiscount {
		if item.Amount >= 0 {
			return ErrInvalidLineItem
		}
		return nil
	}
	if item.Amount < 0 {
		return ErrInvalidLineItem
	}
	return nil
}
