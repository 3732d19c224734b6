package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/lib/pq"
	"github.com/nci/envi/processor"
)

func listParam(request *http.Request, name string) []string {
	v := strings.TrimSpace(request.FormValue(name))
	if len(v) == 0 {
		return nil
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); len(p) > 0 {
			out = append(out, p)
		}
	}
	return out
}

// search lists the indexed headers below the request path.
func (s *server) search(request *http.Request) ([]byte, error) {
	if s.db == nil {
		return nil, &httpError{fmt.Errorf("no database configured"), http.StatusServiceUnavailable}
	}

	limit, err := intParam(request, "limit", 100)
	if err != nil {
		return nil, err
	}
	var minBands sql.NullInt64
	if len(request.FormValue("min_bands")) > 0 {
		n, err := intParam(request, "min_bands", 0)
		if err != nil {
			return nil, err
		}
		minBands = sql.NullInt64{Int64: int64(n), Valid: true}
	}

	prefix := filepath.Clean("/" + request.URL.Path)
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	// Use Postgres prepared statements and placeholders for input checks.
	// A null array argument disables the corresponding condition.
	var payload string
	err = s.db.QueryRow(
		`select coalesce(json_agg(row_to_json(f)), '[]'::json)::text from (
			select header_path, data_path, samples, lines, bands,
			       data_type, interleave, byte_order, data_size
			from envi_files
			where header_path like $1 || '%'
			  and ($2::integer is null or bands >= $2::integer)
			  and ($3::text[] is null or data_type = any($3::text[]))
			  and ($4::text[] is null or interleave = any($4::text[]))
			order by header_path
			limit $5
		) f`,
		prefix,
		minBands,
		pq.Array(listParam(request, "data_type")),
		pq.Array(listParam(request, "interleave")),
		limit,
	).Scan(&payload)
	if err != nil {
		return nil, badRequest("%v", err)
	}
	return []byte(payload), nil
}

// ingest reads the header at the request path and records it.
func (s *server) ingest(request *http.Request) ([]byte, error) {
	if s.db == nil {
		return nil, &httpError{fmt.Errorf("no database configured"), http.StatusServiceUnavailable}
	}

	hdrPath, err := s.resolve(request.URL.Path)
	if err != nil {
		return nil, err
	}
	hf, err := processor.ExtractHeaderFile(hdrPath, s.currentConfig().Extensions, s.options(nil).Diagnostics)
	if err != nil {
		return nil, &httpError{err, http.StatusNotFound}
	}

	fields, err := json.Marshal(hf.Info.Fields)
	if err != nil {
		return nil, err
	}

	_, err = s.db.Exec(
		`insert into envi_files (header_path, data_path, samples, lines, bands,
			data_type, interleave, byte_order, data_size, non_standard, fields, updated)
		values ($1, nullif($2, ''), $3, $4, $5, $6, $7, $8, $9, $10, $11::jsonb, now())
		on conflict (header_path) do update set
			data_path = excluded.data_path, samples = excluded.samples,
			lines = excluded.lines, bands = excluded.bands,
			data_type = excluded.data_type, interleave = excluded.interleave,
			byte_order = excluded.byte_order, data_size = excluded.data_size,
			non_standard = excluded.non_standard, fields = excluded.fields,
			updated = now()`,
		filepath.Clean("/"+request.URL.Path),
		hf.DataFile,
		hf.Info.Samples,
		hf.Info.Lines,
		hf.Info.Bands,
		hf.Info.DataType,
		hf.Info.Interleave,
		hf.Info.ByteOrder,
		hf.DataSize,
		pq.Array(hf.Info.NonStandard),
		string(fields),
	)
	if err != nil {
		return nil, err
	}
	return json.Marshal(hf)
}
