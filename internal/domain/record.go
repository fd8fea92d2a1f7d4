package domain

import "time"

const (
	SegSubscription = "subscription"
	SegDocuments    = "documents"

	SegInfo   = "info"
	SegObject = "object"

	FieldFirstSeen    = "first_seen"
	FieldLastSeen     = "last_seen"
	FieldDownloadedAt = "downloaded_at"
	FieldDigest       = "digest"
)

// SubscriptionKey is the metadata key path of a subscription record.
func SubscriptionKey(backend, subscriptionID string) []string {
	return []string{backend, subscriptionID, SegSubscription}
}

// DocumentKey is the metadata key path of a document record.
func DocumentKey(backend, subscriptionID, documentID string) []string {
	return []string{backend, subscriptionID, SegDocuments, documentID}
}

// SyncInfo tracks when an item was observed and fetched. FirstSeen is
// written once; LastSeen moves on every pass; DownloadedAt is only set
// after a successful write.
type SyncInfo struct {
	FirstSeen    *time.Time `json:"first_seen,omitempty"`
	LastSeen     *time.Time `json:"last_seen,omitempty"`
	DownloadedAt *time.Time `json:"downloaded_at,omitempty"`
	Digest       string     `json:"digest,omitempty"`
}

// SyncRecord is the persisted metadata about one subscription or document.
type SyncRecord struct {
	Object map[string]any `json:"object,omitempty"`
	Info   SyncInfo       `json:"info"`
}

// Summary aggregates the records of one backend.
type Summary struct {
	Backend         string
	Subscriptions   int
	DocumentsSeen   int
	DocumentsStored int
}
