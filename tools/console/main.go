package main

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/asdine/storm/v3"
	"github.com/mdouchement/timecapsule/internal/database"
	"github.com/mdouchement/timecapsule/internal/model"
	"github.com/mdouchement/timecapsule/pkg/stormsql"
	"github.com/mdouchement/timecapsule/pkg/structs"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// go run tools/console/main.go timecapsule.db " SELECT Title, UnlocksAt FROM capsules WHERE RecipientID = 'f2a98ab0-2c40-42b4-be08-da3b771be935' AND UnlocksAt > '2027-02-16 20:52:55';  "

var codec string

func main() {
	c := &cobra.Command{
		Use:   "console DATABASE QUERY",
		Short: "SQL console for timecapsule database",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			//
			//
			sc, err := stormsql.ParseSelect(args[1])
			if err != nil {
				return err
			}

			records, err := table(sc.Tablename)
			if err != nil {
				return err
			}

			//
			//
			if err = database.UseCodec(codec); err != nil {
				return err
			}

			fmt.Println("Opening", args[0])
			db, err := storm.Open(args[0], database.StormCodec)
			if err != nil {
				return errors.Wrap(err, "could not open database")
			}
			defer db.Close()

			//
			// Prepare request
			//

			query := db.Select(sc.Matcher)
			if sc.Skip > 0 {
				query.Skip(sc.Skip)
			}
			if sc.Limit > 0 {
				query.Limit(sc.Limit)
			}
			if len(sc.OrderBy) > 0 {
				query.OrderBy(sc.OrderBy...)
				if sc.OrderByReversed {
					query.Reverse()
				}
			}

			// Execute

			if sc.Count {
				return count(query, records.record)
			}

			return list(query, records.list, sc.SelectedFields)
		},
	}
	c.Flags().StringVarP(&codec, "codec", "", database.DefaultCodec, "Codec of the database")

	if err := c.Execute(); err != nil {
		log.Fatalf("%+v", err)
	}
}

type records struct {
	record any
	list   any
}

func table(name string) (records, error) {
	switch name {
	case "users":
		return records{record: &model.User{}, list: &[]*model.User{}}, nil
	case "sessions":
		return records{record: &model.Session{}, list: &[]*model.Session{}}, nil
	case "drafts":
		return records{record: &model.Draft{}, list: &[]*model.Draft{}}, nil
	case "capsules":
		return records{record: &model.Capsule{}, list: &[]*model.Capsule{}}, nil
	default:
		return records{}, errors.Errorf("unknown tablename: %s", name)
	}
}

func count(query storm.Query, record any) error {
	n, err := query.Count(record)
	if err != nil {
		return errors.Wrap(err, "could not perform query")
	}

	fmt.Println("Count:", n)
	return nil
}

func list(query storm.Query, records any, fields []string) error {
	err := query.Find(records)
	if err == storm.ErrNotFound {
		fmt.Println("[]")
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "could not perform query")
	}

	if len(fields) == 0 {
		return jsondump(records)
	}

	var projections []map[string]any
	for _, record := range models(records) {
		projection, err := structs.Project(record, fields)
		if err != nil {
			return err
		}
		projections = append(projections, projection)
	}
	return jsondump(projections)
}

func models(records any) []model.Model {
	var ms []model.Model
	switch v := records.(type) {
	case *[]*model.User:
		for _, m := range *v {
			ms = append(ms, m)
		}
	case *[]*model.Session:
		for _, m := range *v {
			ms = append(ms, m)
		}
	case *[]*model.Draft:
		for _, m := range *v {
			ms = append(ms, m)
		}
	case *[]*model.Capsule:
		for _, m := range *v {
			ms = append(ms, m)
		}
	}
	return ms
}

func jsondump(v any) error {
	d, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(d))
	return nil
}
