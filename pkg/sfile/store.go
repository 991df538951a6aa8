package sfile

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// formatVersion is the store format produced and understood by this
// package. Stores written with a different version are rejected on open.
const formatVersion = 1

// kindGroup marks group rows in the nodes table; dataset rows carry their
// Kind value.
const kindGroup = 0

var (
	// ErrNotStore indicates the database is missing the store tables.
	ErrNotStore = errors.New("not a settings store")

	// ErrVersion indicates the store was written with an incompatible
	// format version.
	ErrVersion = errors.New("store format version mismatch")
)

// File is a settings store backed by SQLite.
type File struct {
	db   *sql.DB
	path string
}

// Create opens the store at path for writing, replacing any previous
// content.
func Create(path string) (*File, error) {
	f, err := openDB(path)
	if err != nil {
		return nil, err
	}
	if err := f.reset(context.Background()); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

// Open connects to an existing store and verifies its format version.
func Open(path string) (*File, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	f, err := openDB(path)
	if err != nil {
		return nil, err
	}
	if err := f.checkVersion(context.Background()); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

func openDB(path string) (*File, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	return &File{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (f *File) Close() error {
	if f == nil || f.db == nil {
		return nil
	}
	return f.db.Close()
}

// Path returns the filesystem path the store was opened with.
func (f *File) Path() string { return f.path }

func (f *File) reset(ctx context.Context) error {
	tx, err := f.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range []string{
		"DROP TABLE IF EXISTS nodes",
		"DROP TABLE IF EXISTS format_version",
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("reset store: %w", err)
		}
	}
	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO format_version (version) VALUES (?)", formatVersion); err != nil {
		return fmt.Errorf("record format version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

func (f *File) checkVersion(ctx context.Context) error {
	var tableExists int
	err := f.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='format_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check format_version table: %w", err)
	}
	if tableExists == 0 {
		return fmt.Errorf("%w: %s", ErrNotStore, f.path)
	}

	var version int
	if err := f.db.QueryRowContext(ctx, "SELECT version FROM format_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read format version: %w", err)
	}
	if version != formatVersion {
		return fmt.Errorf("%w: store has version %d, expected %d", ErrVersion, version, formatVersion)
	}
	return nil
}

// WriteTree replaces the store content with t in a single transaction. A
// failed write leaves the previous content intact.
func (f *File) WriteTree(ctx context.Context, t *Tree) error {
	tx, err := f.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin write tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM nodes"); err != nil {
		return fmt.Errorf("clear nodes: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		"INSERT INTO nodes (parent_id, name, kind) VALUES (NULL, '', ?)", kindGroup)
	if err != nil {
		return fmt.Errorf("insert root: %w", err)
	}
	rootID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("root id: %w", err)
	}

	if err := writeLevel(ctx, tx, rootID, t); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit write: %w", err)
	}
	return nil
}

func writeLevel(ctx context.Context, tx *sql.Tx, parent int64, t *Tree) error {
	for _, name := range t.Names() {
		d, _ := t.Value(name)
		if err := insertDataset(ctx, tx, parent, name, d); err != nil {
			return err
		}
	}
	for _, name := range t.ChildNames() {
		child, _ := t.Child(name)
		res, err := tx.ExecContext(ctx,
			"INSERT INTO nodes (parent_id, name, kind) VALUES (?, ?, ?)", parent, name, kindGroup)
		if err != nil {
			return fmt.Errorf("insert group %q: %w", name, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("group id for %q: %w", name, err)
		}
		if err := writeLevel(ctx, tx, id, child); err != nil {
			return err
		}
	}
	return nil
}

func insertDataset(ctx context.Context, tx *sql.Tx, parent int64, name string, d Dataset) error {
	var (
		num     sql.NullFloat64
		inum    sql.NullInt64
		str     sql.NullString
		shape   sql.NullString
		payload []byte
	)

	switch d.kind {
	case KindFloat:
		num = sql.NullFloat64{Float64: d.num, Valid: true}
	case KindInt, KindBool:
		inum = sql.NullInt64{Int64: d.inum, Valid: true}
	case KindString:
		str = sql.NullString{String: d.str, Valid: true}
	case KindArray:
		encoded, err := json.Marshal(d.shape)
		if err != nil {
			return fmt.Errorf("encode shape for %q: %w", name, err)
		}
		shape = sql.NullString{String: string(encoded), Valid: true}
		payload = floatsToBlob(d.floats)
	case KindInts:
		payload = intsToBlob(d.ints)
	default:
		return fmt.Errorf("dataset %q has unsupported kind %s", name, d.kind)
	}

	_, err := tx.ExecContext(ctx,
		`INSERT INTO nodes (parent_id, name, kind, num, inum, str, shape, payload)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		parent, name, int(d.kind), num, inum, str, shape, payload)
	if err != nil {
		return fmt.Errorf("insert dataset %q: %w", name, err)
	}
	return nil
}

// ReadTree loads the full store content.
func (f *File) ReadTree(ctx context.Context) (*Tree, error) {
	rows, err := f.db.QueryContext(ctx,
		"SELECT id, parent_id, name, kind, num, inum, str, shape, payload FROM nodes ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("query nodes: %w", err)
	}
	defer rows.Close()

	var root *Tree
	groups := make(map[int64]*Tree)

	for rows.Next() {
		var (
			id      int64
			parent  sql.NullInt64
			name    string
			kind    int
			num     sql.NullFloat64
			inum    sql.NullInt64
			str     sql.NullString
			shape   sql.NullString
			payload []byte
		)
		if err := rows.Scan(&id, &parent, &name, &kind, &num, &inum, &str, &shape, &payload); err != nil {
			return nil, fmt.Errorf("scan node: %w", err)
		}

		if kind == kindGroup && !parent.Valid {
			if root != nil {
				return nil, fmt.Errorf("%w: multiple root groups", ErrNotStore)
			}
			root = NewTree()
			groups[id] = root
			continue
		}

		p, ok := groups[parent.Int64]
		if !parent.Valid || !ok {
			return nil, fmt.Errorf("%w: node %q has no parent group", ErrNotStore, name)
		}

		if kind == kindGroup {
			child := NewTree()
			p.children[name] = child
			groups[id] = child
			continue
		}

		d, err := datasetFromRow(name, Kind(kind), num, inum, str, shape, payload)
		if err != nil {
			return nil, err
		}
		p.values[name] = d
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate nodes: %w", err)
	}
	if root == nil {
		return nil, fmt.Errorf("%w: missing root group", ErrNotStore)
	}
	return root, nil
}

func datasetFromRow(name string, kind Kind, num sql.NullFloat64, inum sql.NullInt64, str, shape sql.NullString, payload []byte) (Dataset, error) {
	switch kind {
	case KindFloat:
		return Float(num.Float64), nil
	case KindInt:
		return Int(inum.Int64), nil
	case KindBool:
		return Bool(inum.Int64 != 0), nil
	case KindString:
		return String(str.String), nil
	case KindArray:
		var dims []int
		if err := json.Unmarshal([]byte(shape.String), &dims); err != nil {
			return Dataset{}, fmt.Errorf("decode shape for %q: %w", name, err)
		}
		floats, err := blobToFloats(payload)
		if err != nil {
			return Dataset{}, fmt.Errorf("decode payload for %q: %w", name, err)
		}
		n := 1
		for _, d := range dims {
			n *= d
		}
		if len(dims) == 0 || n != len(floats) {
			return Dataset{}, fmt.Errorf("dataset %q: shape %v does not fit %d values", name, dims, len(floats))
		}
		return Dataset{kind: KindArray, floats: floats, shape: dims}, nil
	case KindInts:
		ints, err := blobToInts(payload)
		if err != nil {
			return Dataset{}, fmt.Errorf("decode payload for %q: %w", name, err)
		}
		return Dataset{kind: KindInts, ints: ints}, nil
	default:
		return Dataset{}, fmt.Errorf("dataset %q has unknown kind %d", name, int(kind))
	}
}

// Save writes t to a fresh store at path, closing it on all paths.
func Save(ctx context.Context, path string, t *Tree) error {
	f, err := Create(path)
	if err != nil {
		return err
	}
	if err := f.WriteTree(ctx, t); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Load reads the full tree from the store at path, closing it on all
// paths.
func Load(ctx context.Context, path string) (*Tree, error) {
	f, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return f.ReadTree(ctx)
}

func floatsToBlob(v []float64) []byte {
	buf := make([]byte, 8*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint64(buf[8*i:], math.Float64bits(f))
	}
	return buf
}

func blobToFloats(buf []byte) ([]float64, error) {
	if len(buf)%8 != 0 {
		return nil, fmt.Errorf("float payload of %d bytes is not a multiple of 8", len(buf))
	}
	v := make([]float64, len(buf)/8)
	for i := range v {
		v[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[8*i:]))
	}
	return v, nil
}

func intsToBlob(v []int64) []byte {
	buf := make([]byte, 8*len(v))
	for i, n := range v {
		binary.LittleEndian.PutUint64(buf[8*i:], uint64(n))
	}
	return buf
}

func blobToInts(buf []byte) ([]int64, error) {
	if len(buf)%8 != 0 {
		return nil, fmt.Errorf("int payload of %d bytes is not a multiple of 8", len(buf))
	}
	v := make([]int64, len(buf)/8)
	for i := range v {
		v[i] = int64(binary.LittleEndian.Uint64(buf[8*i:]))
	}
	return v, nil
}
