package handlers

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"contentorchestrator/internal/logger"
	helpers "contentorchestrator/internal/utils/helpers"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// ActivityHandler: журнал действий по статье, собранный из JSON-логов.
// Читает текущий app.log и ротированные lumberjack-файлы app-<timestamp>.log[.gz].
type ActivityHandler struct {
	LogDir string
}

func NewActivityHandler(dir string) *ActivityHandler {
	return &ActivityHandler{LogDir: dir}
}

// Activity
// @Summary      История статьи
// @Description  Последние записи логов с article_id статьи (генерация, публикации, снятия) в хронологическом порядке.
// @Tags         content
// @Produce      json
// @Param        id     path      string  true   "ID статьи"
// @Param        level  query     string  false  "CSV уровней: debug,info,warn,error"
// @Param        limit  query     int     false  "Лимит (по умолч. 200, макс. 1000)"
// @Success      200    {object}  helpers.Response
// @Router       /api/content/{id}/activity [get]
func (h *ActivityHandler) Activity(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	levelSet := toUpperSet(r.URL.Query().Get("level"))
	limit := clampAtoi(r.URL.Query().Get("limit"), 200, 1, 1000)

	// быстрый фильтр по подстроке до разбора JSON
	needle := []byte(`"article_id":"` + id + `"`)

	ring := newLineRing(limit)
	err := h.forEachLine(func(raw []byte) bool {
		if !bytes.Contains(raw, needle) {
			return true
		}
		var obj map[string]any
		if err := json.Unmarshal(raw, &obj); err != nil {
			// консольный формат пропускаем
			return true
		}
		if getString(obj, "article_id") != id {
			return true
		}
		if len(levelSet) > 0 && !levelSet[strings.ToUpper(getString(obj, "level"))] {
			return true
		}
		ring.push(append([]byte{}, raw...))
		return true
	})
	if err != nil && !os.IsNotExist(err) {
		logger.WithCtx(r.Context()).Error("Ошибка чтения логов", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "logs unavailable")
		return
	}

	helpers.JSON(w, http.StatusOK, map[string]any{
		"articleId": id,
		"items":     ring.items(),
	})
}

// logFiles: сначала ротированные файлы по возрастанию имени (в имени timestamp), затем текущий app.log.
func (h *ActivityHandler) logFiles() ([]string, error) {
	entries, err := os.ReadDir(h.LogDir)
	if err != nil {
		return nil, err
	}

	var rotated []string
	current := ""
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		switch {
		case name == "app.log":
			current = filepath.Join(h.LogDir, name)
		case strings.HasPrefix(name, "app-") && (strings.HasSuffix(name, ".log") || strings.HasSuffix(name, ".gz")):
			rotated = append(rotated, filepath.Join(h.LogDir, name))
		}
	}
	sort.Strings(rotated)
	if current != "" {
		rotated = append(rotated, current)
	}
	return rotated, nil
}

func (h *ActivityHandler) forEachLine(handle func([]byte) bool) error {
	files, err := h.logFiles()
	if err != nil {
		return err
	}

	for _, path := range files {
		keep, err := scanFile(path, handle)
		if err != nil {
			logger.Log.Warn("Не удалось прочитать лог-файл", zap.String("file", path), zap.Error(err))
			continue
		}
		if !keep {
			return nil
		}
	}
	return nil
}

func scanFile(path string, handle func([]byte) bool) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return true, err
	}
	defer f.Close()

	var reader io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gr, err := gzip.NewReader(f)
		if err != nil {
			return true, err
		}
		defer gr.Close()
		reader = gr
	}

	sc := bufio.NewScanner(reader)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if !handle(sc.Bytes()) {
			return false, nil
		}
	}
	return true, sc.Err()
}

// lineRing хранит последние size записей.
type lineRing struct {
	buf  []json.RawMessage
	next int
	full bool
}

func newLineRing(size int) *lineRing {
	return &lineRing{buf: make([]json.RawMessage, size)}
}

func (r *lineRing) push(line json.RawMessage) {
	r.buf[r.next] = line
	r.next = (r.next + 1) % len(r.buf)
	if r.next == 0 {
		r.full = true
	}
}

// items: от старых к новым.
func (r *lineRing) items() []json.RawMessage {
	if !r.full {
		return append(make([]json.RawMessage, 0, r.next), r.buf[:r.next]...)
	}
	out := make([]json.RawMessage, 0, len(r.buf))
	out = append(out, r.buf[r.next:]...)
	return append(out, r.buf[:r.next]...)
}

// ===== helpers =====

func toUpperSet(csv string) map[string]bool {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	m := map[string]bool{}
	for _, p := range strings.Split(csv, ",") {
		if p = strings.TrimSpace(p); p != "" {
			m[strings.ToUpper(p)] = true
		}
	}
	return m
}

func getString(m map[string]any, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func clampAtoi(s string, def, min, max int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < min {
			return min
		}
		if n > max {
			return max
		}
		return n
	}
	return def
}
