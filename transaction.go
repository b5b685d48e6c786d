package bookkeeper

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Transaction is one leg of a balanced journal. Exactly one of Credit and
// Debit is nonzero. Rows are never rewritten after commit except for the
// voided/void_reason flip performed by Book.Void.
type Transaction struct {
	ID              bson.ObjectID  `bson:"_id" json:"_id"`
	Credit          float64        `bson:"credit" json:"credit"`
	Debit           float64        `bson:"debit" json:"debit"`
	Meta            map[string]any `bson:"meta,omitempty" json:"meta,omitempty"`
	Datetime        time.Time      `bson:"datetime" json:"datetime"`
	AccountPath     []string       `bson:"account_path" json:"account_path"`
	Accounts        string         `bson:"accounts" json:"accounts"`
	Book            string         `bson:"book" json:"book"`
	Memo            string         `bson:"memo" json:"memo"`
	Journal         bson.ObjectID  `bson:"_journal" json:"_journal"`
	Timestamp       time.Time      `bson:"timestamp" json:"timestamp"`
	Voided          bool           `bson:"voided" json:"voided"`
	VoidReason      string         `bson:"void_reason,omitempty" json:"void_reason,omitempty"`
	Approved        bool           `bson:"approved" json:"approved"`
	OriginalJournal bson.ObjectID  `bson:"_original_journal,omitempty" json:"_original_journal,omitempty"`
}

// Journal is the persisted record of one balanced accounting event and the
// ids of its child transaction rows. The signed sum of credit-debit across
// the rows is zero at the book's precision.
type Journal struct {
	ID              bson.ObjectID   `bson:"_id" json:"_id"`
	Datetime        time.Time       `bson:"datetime" json:"datetime"`
	Memo            string          `bson:"memo" json:"memo"`
	Transactions    []bson.ObjectID `bson:"_transactions" json:"_transactions"`
	Book            string          `bson:"book" json:"book"`
	Approved        bool            `bson:"approved" json:"approved"`
	Voided          bool            `bson:"voided" json:"voided"`
	VoidReason      string          `bson:"void_reason,omitempty" json:"void_reason,omitempty"`
	OriginalJournal bson.ObjectID   `bson:"_original_journal,omitempty" json:"_original_journal,omitempty"`
}

// BalanceSnapshot is a cached balance aggregate. Transaction records the
// highest row id folded into Balance/Notes; a balance query only has to
// aggregate rows with a greater id. Snapshot documents are immutable and
// expire via the store's TTL mechanism, so a refresh inserts a new document
// rather than updating the old one.
type BalanceSnapshot struct {
	ID          bson.ObjectID `bson:"_id" json:"_id"`
	Key         string        `bson:"key" json:"key"`
	Book        string        `bson:"book" json:"book"`
	Account     string        `bson:"account" json:"account"`
	Meta        string        `bson:"meta" json:"meta"`
	Transaction bson.ObjectID `bson:"transaction" json:"transaction"`
	Balance     float64       `bson:"balance" json:"balance"`
	Notes       int64         `bson:"notes" json:"notes"`
	CreatedAt   time.Time     `bson:"created_at" json:"created_at"`
	ExpireAt    time.Time     `bson:"expire_at" json:"expire_at"`
}
