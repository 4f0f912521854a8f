package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IWTDPLZZZ/Habit-Tracker/models"
	"github.com/IWTDPLZZZ/Habit-Tracker/storage"
	"go.uber.org/zap"
)

// timeLayout формат времени, хранимого строкой.
const timeLayout = time.RFC3339

// Clock возвращает текущее время. Его часовой пояс определяет, что такое
// "сегодня" и "час суток".
type Clock func() time.Time

// documents читает и пишет JSON-документы; испорченные данные считаются отсутствующими.
type documents struct {
	store  storage.Store
	logger *zap.Logger
}

// loadDoc декодирует key в dest. Возвращает false, если ключа нет или документ
// непригоден; тогда dest нужно отбросить.
func (d documents) loadDoc(ctx context.Context, key string, dest interface{}) (bool, error) {
	raw, ok, err := d.store.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		d.logger.Warn("store_document_reset", zap.String("key", key), zap.Error(err))
		return false, nil
	}
	if err := models.Validate(dest); err != nil {
		d.logger.Warn("store_document_reset", zap.String("key", key), zap.Error(err))
		return false, nil
	}
	return true, nil
}

func (d documents) save(ctx context.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := d.store.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// loadList декодирует JSON-массив под ключом key. Элементы, не прошедшие
// декодирование или валидацию, отбрасываются поштучно; не массив читается как
// пустой список. bool сообщает, был ли ключ.
func loadList[T any](ctx context.Context, d documents, key string) ([]T, bool, error) {
	raw, ok, err := d.store.Get(ctx, key)
	if err != nil {
		return nil, false, fmt.Errorf("load %s: %w", key, err)
	}
	if !ok {
		return []T{}, false, nil
	}

	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &elems); err != nil {
		d.logger.Warn("store_document_reset", zap.String("key", key), zap.Error(err))
		return []T{}, true, nil
	}

	out := make([]T, 0, len(elems))
	for i, elem := range elems {
		var item T
		if err := json.Unmarshal(elem, &item); err != nil {
			d.logger.Warn("store_record_dropped", zap.String("key", key), zap.Int("index", i), zap.Error(err))
			continue
		}
		if err := models.Validate(&item); err != nil {
			d.logger.Warn("store_record_dropped", zap.String("key", key), zap.Int("index", i), zap.Error(err))
			continue
		}
		out = append(out, item)
	}
	return out, true, nil
}
