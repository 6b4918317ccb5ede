package local

import (
	"time"

	"gorm.io/gorm"
)

// KVEntry is one persisted key-value pair. Values are JSON-serialized by
// the callers; this layer stores opaque strings.
type KVEntry struct {
	Key            string `gorm:"primaryKey;column:key"`
	Value          string `gorm:"type:text;not null"`
	UpdatedAtEpoch int64  `gorm:"not null"`
}

func (KVEntry) TableName() string { return "kv_entries" }

// BeforeSave hook to refresh the update timestamp.
func (e *KVEntry) BeforeSave(tx *gorm.DB) error {
	e.UpdatedAtEpoch = time.Now().UnixMilli()
	return nil
}
