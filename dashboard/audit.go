package dashboard

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// AuditLog appends admin actions to a plain text file, one timestamped
// header line per action with indented detail lines. The file is the
// compliance artifact the legacy system produced; process logs go to
// logrus separately.
type AuditLog struct {
	Path   string
	Logger *logrus.Logger

	mu sync.Mutex
}

func NewAuditLog(path string, logger *logrus.Logger) *AuditLog {
	if path == "" {
		path = "admin_logs.txt"
	}
	return &AuditLog{Path: path, Logger: logger}
}

func (a *AuditLog) RecordUpdate(custNo string, changes []string) {
	a.append(fmt.Sprintf("ADMIN UPDATED: %s", custNo), changes)
}

func (a *AuditLog) RecordDelete(custNo string, notes []string) {
	a.append(fmt.Sprintf("ADMIN DELETED: %s", custNo), notes)
}

func (a *AuditLog) append(header string, details []string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s\n", time.Now().Format(time.RFC3339), header)
	for _, d := range details {
		fmt.Fprintf(&b, "  - %s\n", d)
	}

	f, err := os.OpenFile(a.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		a.Logger.WithError(err).Error("audit log open failed")
		return
	}
	defer f.Close()
	if _, err := f.WriteString(b.String()); err != nil {
		a.Logger.WithError(err).Error("audit log write failed")
	}
}
