package history

import (
	"gorm.io/gorm"

	"github.com/vocaloid-archive/LyricsCorpus-Go/corpus"
)

// TrackHistoryModel mirrors the track_histories schema: one row per track the
// crawler has ever examined, keyed by the catalog track ID.
type TrackHistoryModel struct {
	gorm.Model
	TrackID     string `gorm:"uniqueIndex;not null"`
	Title       string
	Disposition string `gorm:"not null"`
	Reason      string
}

func (TrackHistoryModel) TableName() string {
	return "track_histories"
}

func toInternal(model TrackHistoryModel) *corpus.TrackHistory {
	return &corpus.TrackHistory{
		ID:          model.ID,
		TrackID:     model.TrackID,
		Title:       model.Title,
		Disposition: model.Disposition,
		Reason:      model.Reason,
	}
}

func toModel(entry *corpus.TrackHistory) *TrackHistoryModel {
	if entry == nil {
		return &TrackHistoryModel{}
	}
	model := &TrackHistoryModel{
		TrackID:     entry.TrackID,
		Title:       entry.Title,
		Disposition: entry.Disposition,
		Reason:      entry.Reason,
	}
	if entry.ID != 0 {
		model.ID = entry.ID
	}
	return model
}
