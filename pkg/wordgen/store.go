package wordgen

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
)

// SetupSchema initializes the tables used for model persistence in the
// provided database. It should be called once on a new database before a
// Store is created. It is idempotent and safe to call on an
// already-initialized database.
func SetupSchema(db *sql.DB) error {

	const (
		schemaModels = `
CREATE TABLE IF NOT EXISTS wordgen_models (
    model_id INTEGER PRIMARY KEY,
    model_name TEXT NOT NULL UNIQUE,
    model_order INTEGER NOT NULL
);
`
		schemaWords = `
CREATE TABLE IF NOT EXISTS wordgen_words (
    model_id INTEGER NOT NULL,
    word TEXT NOT NULL,
    PRIMARY KEY (model_id, word)
);
`
		schemaTransitions = `
CREATE TABLE IF NOT EXISTS wordgen_transitions (
    model_id INTEGER NOT NULL,
    prefix TEXT NOT NULL,
    next_char TEXT NOT NULL,
    frequency INTEGER NOT NULL DEFAULT 1,
    PRIMARY KEY (model_id, prefix, next_char)
);
`
	)

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}

	// If the transaction succeeds, tx.Commit() runs first and the deferred
	// rollback does nothing. If it fails, this cleans up.
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	if _, err = tx.Exec(schemaModels); err != nil {
		return fmt.Errorf("could not create models schema: %w", err)
	}

	if _, err = tx.Exec(schemaWords); err != nil {
		return fmt.Errorf("could not create words schema: %w", err)
	}

	if _, err = tx.Exec(schemaTransitions); err != nil {
		return fmt.Errorf("could not create transitions schema: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}

	return nil
}

// ModelInfo holds the metadata for a persisted model: its row ID, unique
// name, and order.
type ModelInfo struct {
	Id    int
	Name  string
	Order int
}

// Store persists trained models in a SQLite database so repeated invocations
// do not have to re-train from the word list. It holds the database
// connection and prepared SQL statements for efficient access.
type Store struct {
	db                 *sql.DB
	stmtGetModel       *sql.Stmt
	stmtGetModels      *sql.Stmt
	stmtAddModel       *sql.Stmt
	stmtGetWords       *sql.Stmt
	stmtGetTransitions *sql.Stmt
	logger             *slog.Logger
}

// NewStore creates a Store over db, pre-compiling all necessary SQL
// statements. It returns an error if any preparation fails.
func NewStore(db *sql.DB) (*Store, error) {
	stmtGetModel, err := db.Prepare(`SELECT model_id, model_order FROM wordgen_models WHERE model_name = ?;`)
	if err != nil {
		return nil, err
	}

	stmtGetModels, err := db.Prepare(`SELECT model_id, model_name, model_order FROM wordgen_models;`)
	if err != nil {
		return nil, err
	}

	stmtAddModel, err := db.Prepare(`INSERT INTO wordgen_models (model_name, model_order) VALUES (?, ?) RETURNING model_id;`)
	if err != nil {
		return nil, err
	}

	stmtGetWords, err := db.Prepare(`SELECT word FROM wordgen_words WHERE model_id = ?;`)
	if err != nil {
		return nil, err
	}

	stmtGetTransitions, err := db.Prepare(`SELECT prefix, next_char, frequency FROM wordgen_transitions WHERE model_id = ?;`)
	if err != nil {
		return nil, err
	}

	return &Store{
		db:                 db,
		stmtGetModel:       stmtGetModel,
		stmtGetModels:      stmtGetModels,
		stmtAddModel:       stmtAddModel,
		stmtGetWords:       stmtGetWords,
		stmtGetTransitions: stmtGetTransitions,
		logger:             slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, nil
}

// Close releases all prepared SQL statements held by the Store. It should be
// called when the Store is no longer needed to free up database resources.
func (s *Store) Close() {
	_ = s.stmtGetModel.Close()
	_ = s.stmtGetModels.Close()
	_ = s.stmtAddModel.Close()
	_ = s.stmtGetWords.Close()
	_ = s.stmtGetTransitions.Close()
}

// SetLogger sets the logger for the Store. By default, all logs are discarded.
func (s *Store) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// GetModelInfos retrieves metadata for all persisted models, returned in a
// map keyed by model name.
func (s *Store) GetModelInfos(ctx context.Context) (map[string]ModelInfo, error) {
	rows, err := s.stmtGetModels.QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	models := make(map[string]ModelInfo)
	for rows.Next() {
		var model ModelInfo
		if err = rows.Scan(&model.Id, &model.Name, &model.Order); err != nil {
			return nil, err
		}
		models[model.Name] = model
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return models, nil
}

// GetModelInfo retrieves the metadata for a single persisted model by name.
// A missing model yields sql.ErrNoRows.
func (s *Store) GetModelInfo(ctx context.Context, modelName string) (ModelInfo, error) {
	var modelId, modelOrder int
	err := s.stmtGetModel.QueryRowContext(ctx, modelName).Scan(&modelId, &modelOrder)
	if err != nil {
		return ModelInfo{}, err
	}
	return ModelInfo{
		Id:    modelId,
		Name:  modelName,
		Order: modelOrder,
	}, nil
}

// SaveModel persists a built model under the given name, replacing any
// existing model with that name. A model must be rebuilt in full when its
// corpus or order changes, so the replacement is wholesale rather than a
// merge. The entire operation is performed within a single transaction.
func (s *Store) SaveModel(ctx context.Context, name string, m *Model) error {
	if m.table == nil {
		return ErrNoTrainingData
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	var modelID int
	err = tx.QueryRowContext(ctx, "SELECT model_id FROM wordgen_models WHERE model_name = ?", name).Scan(&modelID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if err = tx.StmtContext(ctx, s.stmtAddModel).QueryRowContext(ctx, name, m.order).Scan(&modelID); err != nil {
			return fmt.Errorf("failed to insert model '%s': %w", name, err)
		}
	case err != nil:
		return fmt.Errorf("failed to query for model '%s': %w", name, err)
	default:
		// Replacing: clear the old rows and refresh the order.
		if _, err = tx.ExecContext(ctx, `UPDATE wordgen_models SET model_order = ? WHERE model_id = ?`, m.order, modelID); err != nil {
			return fmt.Errorf("failed to update order for model %d: %w", modelID, err)
		}
		if _, err = tx.ExecContext(ctx, `DELETE FROM wordgen_words WHERE model_id = ?`, modelID); err != nil {
			return fmt.Errorf("failed to clear words for model %d: %w", modelID, err)
		}
		if _, err = tx.ExecContext(ctx, `DELETE FROM wordgen_transitions WHERE model_id = ?`, modelID); err != nil {
			return fmt.Errorf("failed to clear transitions for model %d: %w", modelID, err)
		}
	}

	stmtInsertWord, err := tx.PrepareContext(ctx, `INSERT INTO wordgen_words (model_id, word) VALUES (?, ?);`)
	if err != nil {
		return fmt.Errorf("failed to prepare word insert statement: %w", err)
	}
	defer func(stmt *sql.Stmt) {
		_ = stmt.Close()
	}(stmtInsertWord)

	for word := range m.corpus.words {
		if _, err = stmtInsertWord.ExecContext(ctx, modelID, word); err != nil {
			return fmt.Errorf("failed to insert word '%s': %w", word, err)
		}
	}

	stmtInsertTransition, err := tx.PrepareContext(ctx, `INSERT INTO wordgen_transitions (model_id, prefix, next_char, frequency) VALUES (?, ?, ?, ?);`)
	if err != nil {
		return fmt.Errorf("failed to prepare transition insert statement: %w", err)
	}
	defer func(stmt *sql.Stmt) {
		_ = stmt.Close()
	}(stmtInsertTransition)

	var transitions int
	for prefix, cs := range m.table {
		for _, c := range cs.choices {
			if _, err = stmtInsertTransition.ExecContext(ctx, modelID, prefix, string(c.Char), c.Freq); err != nil {
				return fmt.Errorf("failed to insert transition (%q -> %q): %w", prefix, string(c.Char), err)
			}
			transitions++
		}
	}

	s.logger.InfoContext(ctx, "Model saved",
		slog.String("model_name", name),
		slog.Int("model_id", modelID),
		slog.Int("words", m.corpus.Len()),
		slog.Int("transitions", transitions),
	)

	return tx.Commit()
}

// LoadModel reconstructs a built model from the database. A missing model
// yields sql.ErrNoRows, which callers typically treat as "train and save".
func (s *Store) LoadModel(ctx context.Context, name string) (*Model, error) {
	info, err := s.GetModelInfo(ctx, name)
	if err != nil {
		return nil, err
	}

	corpus := &Corpus{words: make(map[string]struct{})}
	rows, err := s.stmtGetWords.QueryContext(ctx, info.Id)
	if err != nil {
		return nil, fmt.Errorf("could not query words for model %d: %w", info.Id, err)
	}
	for rows.Next() {
		var word string
		if err = rows.Scan(&word); err != nil {
			_ = rows.Close()
			return nil, err
		}
		corpus.words[word] = struct{}{}
	}
	_ = rows.Close()
	if err = rows.Err(); err != nil {
		return nil, err
	}

	m, err := NewModel(corpus, info.Order)
	if err != nil {
		return nil, err
	}

	table := make(map[string]*choiceSet)
	tRows, err := s.stmtGetTransitions.QueryContext(ctx, info.Id)
	if err != nil {
		return nil, fmt.Errorf("could not query transitions for model %d: %w", info.Id, err)
	}
	for tRows.Next() {
		var prefix, next string
		var freq int
		if err = tRows.Scan(&prefix, &next, &freq); err != nil {
			_ = tRows.Close()
			return nil, err
		}
		cs, ok := table[prefix]
		if !ok {
			cs = &choiceSet{}
			table[prefix] = cs
		}
		cs.choices = append(cs.choices, CharFreq{Char: next[0], Freq: freq})
		cs.total += freq
	}
	_ = tRows.Close()
	if err = tRows.Err(); err != nil {
		return nil, err
	}

	// Row order without an ORDER BY is not guaranteed; keep each choice set
	// sorted so a recorded Source sequence reproduces the same output.
	for _, cs := range table {
		sort.Slice(cs.choices, func(i, j int) bool {
			return cs.choices[i].Char < cs.choices[j].Char
		})
	}
	m.table = table

	s.logger.InfoContext(ctx, "Model loaded",
		slog.String("model_name", name),
		slog.Int("model_id", info.Id),
		slog.Int("words", corpus.Len()),
		slog.Int("prefixes", len(table)),
	)

	return m, nil
}

// RemoveModel deletes a model and all of its associated words and
// transitions. The operation is performed within a transaction. Removing a
// model that does not exist is not an error.
func (s *Store) RemoveModel(ctx context.Context, name string) error {
	info, err := s.GetModelInfo(ctx, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	if _, err = tx.ExecContext(ctx, "DELETE FROM wordgen_transitions WHERE model_id = ?", info.Id); err != nil {
		return fmt.Errorf("failed to remove transitions for model %d: %w", info.Id, err)
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM wordgen_words WHERE model_id = ?", info.Id); err != nil {
		return fmt.Errorf("failed to remove words for model %d: %w", info.Id, err)
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM wordgen_models WHERE model_id = ?", info.Id); err != nil {
		return fmt.Errorf("failed to remove model %d: %w", info.Id, err)
	}

	s.logger.InfoContext(ctx, "Model removed",
		slog.String("model_name", name),
		slog.Int("model_id", info.Id),
	)

	return tx.Commit()
}
