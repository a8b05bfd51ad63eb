// catalogctl loads cable catalogs into the store from the command line.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"sceap/internal/auth"
	"sceap/internal/catalog"
	"sceap/internal/importer"
)

func main() {
	file := flag.String("file", "", "catalog workbook (.xlsx) to upload")
	name := flag.String("name", "", "catalog name (defaults to the file name)")
	list := flag.Bool("list", false, "list stored catalog names")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	godotenv.Load()

	db, err := auth.InitDB()
	if err != nil {
		log.Warn("database unavailable, using in-memory store", "err", err)
		db = nil
	} else {
		defer db.Close()
	}

	ctx := context.Background()
	store := catalog.NewStore(db, log)
	if err := store.EnsureSchema(ctx); err != nil {
		log.Warn("catalog schema", "err", err)
	}

	if *list {
		names, err := store.Names(ctx)
		if err != nil {
			log.Error("list catalogs", "err", err)
			os.Exit(1)
		}
		for _, n := range names {
			fmt.Println(n)
		}
		return
	}

	if *file == "" {
		fmt.Fprintln(os.Stderr, "usage: catalogctl -file catalog.xlsx [-name NAME] | -list")
		os.Exit(2)
	}

	f, err := os.Open(*file)
	if err != nil {
		log.Error("open workbook", "file", *file, "err", err)
		os.Exit(1)
	}
	defer f.Close()

	cat, warnings := importer.ParseCatalog(f)
	for _, warn := range warnings {
		log.Warn("catalog row", "msg", warn)
	}
	if len(cat) == 0 {
		log.Error("no usable rows in workbook", "file", *file)
		os.Exit(1)
	}

	catName := *name
	if catName == "" {
		catName = strings.TrimSuffix(filepath.Base(*file), filepath.Ext(*file))
	}
	if err := store.Put(ctx, catName, cat); err != nil {
		log.Error("store catalog", "name", catName, "err", err)
		os.Exit(1)
	}
	fmt.Printf("stored catalog %q with %d entries\n", catName, len(cat))
}
