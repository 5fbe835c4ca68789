package media

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxUploadSize: предел размера одной картинки.
const MaxUploadSize = 5 << 20

var (
	ErrNotImage = errors.New("разрешены только изображения")
	ErrTooLarge = errors.New("файл больше 5MB")
)

const uploadsPath = "/uploads/"

// LocalStore хранит загруженные редактором картинки на диске до публикации.
// Ссылки имеют вид <baseURL>/uploads/<имя>.
type LocalStore struct {
	dir     string
	baseURL string
	now     func() time.Time
}

func NewLocalStore(dir, publicBaseURL string) *LocalStore {
	return &LocalStore{
		dir:     dir,
		baseURL: strings.TrimRight(publicBaseURL, "/"),
		now:     time.Now,
	}
}

func (s *LocalStore) Dir() string { return s.dir }

// Save пишет картинку под уникальным именем и возвращает её публичную ссылку.
func (s *LocalStore) Save(name, contentType string, r io.Reader) (string, error) {
	if !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return "", ErrNotImage
	}
	if err := os.MkdirAll(s.dir, os.ModePerm); err != nil {
		return "", err
	}

	filename := fmt.Sprintf("%d-%s%s", s.now().UnixMilli(), uuid.NewString()[:8], strings.ToLower(filepath.Ext(name)))
	path := filepath.Join(s.dir, filename)

	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	n, err := io.Copy(dst, io.LimitReader(r, MaxUploadSize+1))
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err == nil && n > MaxUploadSize {
		err = ErrTooLarge
	}
	if err != nil {
		_ = os.Remove(path)
		return "", err
	}

	return s.baseURL + uploadsPath + filename, nil
}

// IsLocal: ссылка указывает на картинку, ещё не перенесённую в CMS.
func IsLocal(link string) bool {
	return strings.Contains(link, uploadsPath)
}

// Path возвращает путь к файлу на диске по локальной ссылке.
// Берётся только последний элемент пути, выйти за пределы dir нельзя.
func (s *LocalStore) Path(link string) (string, bool) {
	i := strings.LastIndex(link, uploadsPath)
	if i < 0 {
		return "", false
	}
	name := filepath.Base(link[i+len(uploadsPath):])
	if name == "." || name == ".." || name == string(filepath.Separator) {
		return "", false
	}
	return filepath.Join(s.dir, name), true
}
