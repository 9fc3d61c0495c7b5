package backend

import (
	"context"
	"errors"
	"strings"

	"github.com/kresus/backend/pkg/models"
)

var ErrMergeSameOperation = errors.New("an operation cannot be merged with itself")

// mergeInto returns keep with the user data of remove adopted wherever
// keep has none.
func mergeInto(keep, remove models.Operation) models.Operation {
	if (keep.CustomLabel == nil || strings.TrimSpace(*keep.CustomLabel) == "") && remove.CustomLabel != nil {
		keep.CustomLabel = remove.CustomLabel
	}

	if keep.CategoryID == models.NoneCategoryID {
		keep.CategoryID = remove.CategoryID
	}

	if keep.Type == models.UnknownOperationType {
		keep.Type = remove.Type
	}

	if keep.Binary == nil {
		keep.Binary = remove.Binary
	}

	return keep
}

// MergeOperations merges the operation removeID into keepID and returns
// the merged operation.
func (b *Local) MergeOperations(ctx context.Context, keepID, removeID string) (models.Operation, error) {
	if keepID == removeID {
		return models.Operation{}, ErrMergeSameOperation
	}

	tx := b.db.WithContext(ctx).Begin()

	var keep, remove models.Operation
	if err := tx.First(&keep, "id = ?", keepID).Error; err != nil {
		tx.Rollback()
		return models.Operation{}, err
	}

	if err := tx.First(&remove, "id = ?", removeID).Error; err != nil {
		tx.Rollback()
		return models.Operation{}, err
	}

	keep = mergeInto(keep, remove)
	if err := tx.Save(&keep).Error; err != nil {
		tx.Rollback()
		return models.Operation{}, err
	}

	if err := tx.Delete(&remove).Error; err != nil {
		tx.Rollback()
		return models.Operation{}, err
	}

	if err := tx.Commit().Error; err != nil {
		return models.Operation{}, err
	}

	b.logger.Info().Str("kept", keepID).Str("removed", removeID).Msg("Merged operations")
	return keep, nil
}
