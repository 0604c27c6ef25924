package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jhoicas/Recaudo-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// parseCSV lee obligaciones; la primera fila es encabezado si no empieza con una categoría válida.
func parseCSV(r io.Reader) ([]*entity.Obligation, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 7
	cr.TrimLeadingSpace = true

	var out []*entity.Obligation
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if line == 1 && !entity.Category(strings.ToUpper(rec[0])).Valid() {
			continue
		}
		o, err := parseRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		out = append(out, o)
	}
	return out, nil
}

func parseRecord(rec []string) (*entity.Obligation, error) {
	category := entity.Category(strings.ToUpper(strings.TrimSpace(rec[0])))
	if !category.Valid() {
		return nil, fmt.Errorf("categoría %q", rec[0])
	}
	account := strings.TrimSpace(rec[1])
	if account == "" {
		return nil, fmt.Errorf("cuenta vacía")
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(rec[4]))
	if err != nil || !amount.IsPositive() {
		return nil, fmt.Errorf("importe %q", rec[4])
	}
	issued, err := time.Parse(dateLayout, strings.TrimSpace(rec[5]))
	if err != nil {
		return nil, fmt.Errorf("expedida: %w", err)
	}
	due, err := time.Parse(dateLayout, strings.TrimSpace(rec[6]))
	if err != nil {
		return nil, fmt.Errorf("fecha límite: %w", err)
	}
	return &entity.Obligation{
		Category: category,
		Account:  account,
		Concept:  strings.TrimSpace(rec[2]),
		Address:  strings.TrimSpace(rec[3]),
		Amount:   amount,
		IssuedAt: issued,
		DueAt:    due,
	}, nil
}

// demoObligations multas para tres placas y prediales para dos domicilios, vencidas y vigentes.
func demoObligations(now time.Time) []*entity.Obligation {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	fine := func(plate, concept, amount string, issuedDaysAgo, dueInDays int) *entity.Obligation {
		return &entity.Obligation{
			Category: entity.CategoryFine,
			Account:  plate,
			Concept:  concept,
			Amount:   decimal.RequireFromString(amount),
			IssuedAt: day.AddDate(0, 0, -issuedDaysAgo),
			DueAt:    day.AddDate(0, 0, dueInDays),
		}
	}
	assessment := func(key, address, amount string, issuedDaysAgo, dueInDays int) *entity.Obligation {
		return &entity.Obligation{
			Category: entity.CategoryAssessment,
			Account:  key,
			Address:  address,
			Amount:   decimal.RequireFromString(amount),
			IssuedAt: day.AddDate(0, 0, -issuedDaysAgo),
			DueAt:    day.AddDate(0, 0, dueInDays),
		}
	}
	return []*entity.Obligation{
		fine("ABC123", "Exceso de velocidad", "1500.00", 40, -10),
		fine("ABC123", "Estacionarse en lugar prohibido", "450.50", 5, 25),
		fine("XYZ987", "Pasarse el alto", "2200.00", 12, 18),
		fine("LMN456", "Exceso de velocidad", "1500.00", 90, -60),
		assessment("1024", "Av. Constitución 1024, Centro", "3850.75", 60, -30),
		assessment("1024", "Av. Constitución 1024, Centro", "3850.75", 10, 50),
		assessment("2048", "Calle Morelos 2048, Obispado", "5120.00", 20, 40),
	}
}
