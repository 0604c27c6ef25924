// seed carga obligaciones (multas y prediales) en el almacén configurado por STORE_DRIVER.
//
// Uso: go run ./cmd/seed [-file obligaciones.csv] [-latin1] [-token cajero]
// Sin -file carga un juego de datos de demostración.
// Columnas CSV: categoria,cuenta,concepto,domicilio,importe,expedida,fecha_limite
// (categoria FINE|ASSESSMENT, fechas 2006-01-02). Los exportes del sistema anterior vienen en ISO-8859-1.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jhoicas/Recaudo-api/internal/domain/entity"
	"github.com/jhoicas/Recaudo-api/internal/infrastructure/store"
	"github.com/jhoicas/Recaudo-api/pkg/config"
	"github.com/jhoicas/Recaudo-api/pkg/jwt"
	"github.com/jhoicas/Recaudo-api/pkg/money"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

func main() {
	file := flag.String("file", "", "CSV de obligaciones (vacío = datos de demostración)")
	latin1 := flag.Bool("latin1", false, "el CSV está codificado en ISO-8859-1")
	role := flag.String("token", "", "imprime un JWT de prueba con este rol (cajero|admin)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuración: %v\n", err)
		os.Exit(1)
	}

	obligations := demoObligations(time.Now())
	if *file != "" {
		obligations, err = readFile(*file, *latin1)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Leer %s: %v\n", *file, err)
			os.Exit(1)
		}
	}

	ctx := context.Background()
	st, err := store.Open(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Almacén: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	totals := make(map[entity.Category]decimal.Decimal)
	for _, o := range obligations {
		if err := st.Loader.Insert(ctx, o); err != nil {
			fmt.Fprintf(os.Stderr, "Insertar %s/%s: %v\n", o.Category, o.Account, err)
			os.Exit(1)
		}
		totals[o.Category] = totals[o.Category].Add(o.Amount)
	}
	fmt.Printf("Cargadas %d obligaciones en %s\n", len(obligations), st.Driver)
	for _, c := range []entity.Category{entity.CategoryFine, entity.CategoryAssessment} {
		fmt.Printf("  %-10s %s\n", c, money.Format(totals[c]))
	}

	if *role != "" {
		tok, err := jwt.Generate(cfg.JWT.Secret, "seed", *role, cfg.JWT.Issuer, cfg.JWT.Expiration)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Token: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Bearer %s\n", tok)
	}
}

func readFile(path string, latin1 bool) ([]*entity.Obligation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if latin1 {
		r = transform.NewReader(f, charmap.ISO8859_1.NewDecoder())
	}
	return parseCSV(r)
}
