package store

import (
	"context"
	"os"
	"strings"
)

// ExecSQLFile provisions the schema from an external SQL script:
// comments are stripped, the script is split on semicolons and each
// statement runs on its own. Statement failures are logged and skipped
// so IF NOT EXISTS scripts stay re-runnable against a live schema.
func (s *Store) ExecSQLFile(ctx context.Context, path string) error {
	db, err := s.ensureDB()
	if err != nil {
		return err
	}
	script, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	for _, stmt := range SplitStatements(string(script)) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			s.Logger.WithError(err).WithField("statement", stmt).Warn("bootstrap statement failed, continuing")
		}
	}
	return nil
}

// SplitStatements strips block and line comments and splits the script
// on semicolons, dropping empty fragments. Semicolons inside string
// literals are not handled; bootstrap scripts are DDL-only.
func SplitStatements(script string) []string {
	cleaned := stripComments(script)
	parts := strings.Split(cleaned, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func stripComments(script string) string {
	var out strings.Builder
	for i := 0; i < len(script); {
		if strings.HasPrefix(script[i:], "/*") {
			end := strings.Index(script[i+2:], "*/")
			if end < 0 {
				break
			}
			i += 2 + end + 2
			continue
		}
		if strings.HasPrefix(script[i:], "--") {
			end := strings.IndexByte(script[i:], '\n')
			if end < 0 {
				break
			}
			i += end
			continue
		}
		out.WriteByte(script[i])
		i++
	}
	return out.String()
}
