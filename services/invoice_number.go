package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/TheNoah-BaseApps/legal-application-legal-8203ea17/models"
	"gorm.io/gorm"
)

// NextInvoiceNumber issues the next sequential invoice number (INV-00001
// scheme) on the given transaction handle. The sequence row is seeded once
// from the highest existing suffix, then advanced with a single atomic
// UPDATE, so concurrent invoice creations never collide.
func NextInvoiceNumber(tx *gorm.DB) (string, error) {
	var seq models.InvoiceSequence
	err := tx.First(&seq, "id = ?", 1).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		last, scanErr := scanHighestSuffix(tx)
		if scanErr != nil {
			return "", scanErr
		}
		seq = models.InvoiceSequence{ID: 1, LastNumber: last}
		if err := tx.Create(&seq).Error; err != nil {
			return "", fmt.Errorf("failed to seed invoice sequence: %w", err)
		}
	} else if err != nil {
		return "", fmt.Errorf("failed to read invoice sequence: %w", err)
	}

	if err := tx.Model(&models.InvoiceSequence{}).
		Where("id = ?", 1).
		UpdateColumn("last_number", gorm.Expr("last_number + 1")).Error; err != nil {
		return "", fmt.Errorf("failed to advance invoice sequence: %w", err)
	}

	if err := tx.First(&seq, "id = ?", 1).Error; err != nil {
		return "", fmt.Errorf("failed to read invoice sequence: %w", err)
	}

	return fmt.Sprintf("%s%05d", models.InvoiceNumberPrefix, seq.LastNumber), nil
}

// scanHighestSuffix finds the largest numeric suffix among existing invoice
// numbers matching the INV- prefix. Soft-deleted invoices still occupy their
// number, so the scan goes over all rows.
func scanHighestSuffix(tx *gorm.DB) (int64, error) {
	var numbers []string
	if err := tx.Model(&models.Invoice{}).
		Unscoped().
		Where("invoice_number LIKE ?", models.InvoiceNumberPrefix+"%").
		Pluck("invoice_number", &numbers).Error; err != nil {
		return 0, fmt.Errorf("failed to scan invoice numbers: %w", err)
	}

	var highest int64
	for _, number := range numbers {
		suffix := strings.TrimPrefix(number, models.InvoiceNumberPrefix)
		n, err := strconv.ParseInt(suffix, 10, 64)
		if err != nil {
			continue // not part of the sequential scheme
		}
		if n > highest {
			highest = n
		}
	}
	return highest, nil
}
