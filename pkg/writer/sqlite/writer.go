// Package sqlite provides SQLite database writing for sequence graphs
package sqlite

import (
	"database/sql"
	"encoding/binary"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ChrisMcGann/SeqGraph/pkg/graph"
)

const (
	// Date format for HeaderTable (ISO 8601)
	headerDateFormat = "2006-01-02"
	schemaVersion    = 1
)

// Writer handles writing graphs and their paths to SQLite database files
type Writer struct {
	db         *sql.DB
	outputPath string
	tx         *sql.Tx
	graphStmt  *sql.Stmt
	vertexStmt *sql.Stmt
	edgeStmt   *sql.Stmt
	pathStmt   *sql.Stmt
	graphID    int64
	pathID     int64
	graphs     map[*graph.Graph]int64
}

// NewWriter creates a new SQLite writer
func NewWriter(outputPath string) (*Writer, error) {
	db, err := sql.Open("sqlite3", outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	w := &Writer{
		db:         db,
		outputPath: outputPath,
		graphID:    1,
		pathID:     1,
		graphs:     make(map[*graph.Graph]int64),
	}

	if err := w.createTables(); err != nil {
		db.Close()
		return nil, err
	}

	if err := w.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}

	return w, nil
}

// createTables creates the required database schema
func (w *Writer) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS GraphTable (
		GraphId INTEGER PRIMARY KEY,
		Annotation TEXT,
		Positions INTEGER,
		Vertices INTEGER,
		Edges INTEGER
	);

	CREATE TABLE IF NOT EXISTS VertexTable (
		GraphId INTEGER REFERENCES GraphTable(GraphId),
		VertexId INTEGER,
		Position INTEGER,
		CombinationIndex INTEGER,
		Residue TEXT,
		Modifications TEXT,
		PrefixFormula TEXT,
		PrefixMass DOUBLE,
		SuffixFormula TEXT,
		SuffixMass DOUBLE,
		PRIMARY KEY (GraphId, VertexId)
	);

	CREATE TABLE IF NOT EXISTS EdgeTable (
		GraphId INTEGER REFERENCES GraphTable(GraphId),
		EdgeId INTEGER,
		FromVertex INTEGER,
		ToVertex INTEGER,
		Residue TEXT,
		Delta TEXT,
		PRIMARY KEY (GraphId, EdgeId)
	);

	CREATE TABLE IF NOT EXISTS PathTable (
		PathId INTEGER PRIMARY KEY,
		GraphId INTEGER REFERENCES GraphTable(GraphId),
		Sequence TEXT,
		NeutralMass DOUBLE,
		ModificationCount INTEGER,
		Complete BOOL,
		blobVertices BLOB
	);

	CREATE TABLE IF NOT EXISTS HeaderTable (
		version INTEGER NOT NULL DEFAULT 0,
		CreationDate TEXT,
		Description TEXT
	);
	`

	_, err := w.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	return nil
}

// prepareStatements opens the write transaction and prepares its statements
func (w *Writer) prepareStatements() error {
	var err error

	w.tx, err = w.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	w.graphStmt, err = w.tx.Prepare(`
		INSERT INTO GraphTable (GraphId, Annotation, Positions, Vertices, Edges)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare graph statement: %w", err)
	}

	w.vertexStmt, err = w.tx.Prepare(`
		INSERT INTO VertexTable (
			GraphId, VertexId, Position, CombinationIndex, Residue, Modifications,
			PrefixFormula, PrefixMass, SuffixFormula, SuffixMass
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare vertex statement: %w", err)
	}

	w.edgeStmt, err = w.tx.Prepare(`
		INSERT INTO EdgeTable (GraphId, EdgeId, FromVertex, ToVertex, Residue, Delta)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare edge statement: %w", err)
	}

	w.pathStmt, err = w.tx.Prepare(`
		INSERT INTO PathTable (PathId, GraphId, Sequence, NeutralMass, ModificationCount, Complete, blobVertices)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare path statement: %w", err)
	}

	return nil
}

// WriteGraph writes the vertices and edges of g and returns its GraphId
func (w *Writer) WriteGraph(g *graph.Graph) (int64, error) {
	if id, ok := w.graphs[g]; ok {
		return id, nil
	}
	id := w.graphID

	_, err := w.graphStmt.Exec(id, g.Annotation().String(), g.NumPositions(), g.NumVertices(), g.NumEdges())
	if err != nil {
		return 0, fmt.Errorf("failed to insert graph: %w", err)
	}

	for _, v := range g.Vertices() {
		_, err := w.vertexStmt.Exec(
			id,                        // GraphId
			int64(v.ID),               // VertexId
			v.Position,                // Position
			v.Index,                   // CombinationIndex
			v.Residue.String(),        // Residue
			v.Combination().String(),  // Modifications
			v.Prefix.String(),         // PrefixFormula
			v.Prefix.Mass(),           // PrefixMass
			v.Suffix.String(),         // SuffixFormula
			v.Suffix.Mass(),           // SuffixMass
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert vertex %d: %w", v.ID, err)
		}
	}

	for _, e := range g.Edges() {
		_, err := w.edgeStmt.Exec(id, int64(e.ID), int64(e.From), int64(e.To), e.Residue.String(), e.Delta.String())
		if err != nil {
			return 0, fmt.Errorf("failed to insert edge %d: %w", e.ID, err)
		}
	}

	w.graphs[g] = id
	w.graphID++
	return id, nil
}

// WritePath writes one path of g, writing g first if needed
func (w *Writer) WritePath(g *graph.Graph, p graph.Path) error {
	graphID, err := w.WriteGraph(g)
	if err != nil {
		return err
	}

	seq := p.Sequence(g)
	_, err = w.pathStmt.Exec(
		w.pathID,
		graphID,
		seq.String(),
		seq.NeutralMass(),
		seq.ModificationCount(),
		p.Complete,
		encodeVertexIDs(p.Vertices),
	)
	if err != nil {
		return fmt.Errorf("failed to insert path: %w", err)
	}

	w.pathID++
	return nil
}

// encodeVertexIDs encodes vertex ids as a little-endian int32 blob
func encodeVertexIDs(ids []graph.VertexID) []byte {
	buf := make([]byte, len(ids)*4)
	for i, id := range ids {
		binary.LittleEndian.PutUint32(buf[i*4:], uint32(int32(id)))
	}
	return buf
}

// decodeVertexIDs is the inverse of encodeVertexIDs
func decodeVertexIDs(buf []byte) []graph.VertexID {
	ids := make([]graph.VertexID, len(buf)/4)
	for i := range ids {
		ids[i] = graph.VertexID(int32(binary.LittleEndian.Uint32(buf[i*4:])))
	}
	return ids
}

// Finalize writes the header table, commits and closes the database
func (w *Writer) Finalize() error {
	if w.db == nil {
		return nil
	}

	_, err := w.tx.Exec(`
		INSERT INTO HeaderTable (version, CreationDate, Description)
		VALUES (?, ?, ?)
	`, schemaVersion, time.Now().Format(headerDateFormat), "seqgraph export")
	if err != nil {
		w.tx.Rollback()
		w.db.Close()
		w.db = nil
		return fmt.Errorf("failed to insert header: %w", err)
	}

	// Close prepared statements
	for _, stmt := range []*sql.Stmt{w.graphStmt, w.vertexStmt, w.edgeStmt, w.pathStmt} {
		if stmt != nil {
			stmt.Close()
		}
	}

	if err := w.tx.Commit(); err != nil {
		w.db.Close()
		w.db = nil
		return fmt.Errorf("failed to commit: %w", err)
	}

	// Close database
	err = w.db.Close()
	w.db = nil
	if err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	return nil
}

// Close closes the database connection (alias for Finalize)
func (w *Writer) Close() error {
	return w.Finalize()
}
