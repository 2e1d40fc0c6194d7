package filestorage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrSaveFile возвращается при ошибке записи файла на диск
	ErrSaveFile = errors.New("filestorage: failed to save file")

	// ErrRemoveFile возвращается при ошибке удаления файла
	ErrRemoveFile = errors.New("filestorage: failed to remove file")

	// ErrInvalidName возвращается, если имя файла выходит за пределы каталога хранилища
	ErrInvalidName = errors.New("filestorage: invalid file name")
)

// Storage хранит загруженные файлы в локальном каталоге
// Имена файлов генерируются как uuid + расширение исходного файла
type Storage struct {
	dir string
}

// New создает хранилище и каталог для него
func New(dir string) (*Storage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}
	return &Storage{dir: dir}, nil
}

// Save копирует содержимое r в новый файл и возвращает его имя
func (s *Storage) Save(r io.Reader, originalName string) (string, error) {
	name := uuid.NewString() + strings.ToLower(filepath.Ext(originalName))
	path := filepath.Join(s.dir, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("%w: create %s: %v", ErrSaveFile, name, err)
	}

	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("%w: write %s: %v", ErrSaveFile, name, err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("%w: close %s: %v", ErrSaveFile, name, err)
	}

	return name, nil
}

// Remove удаляет файл по имени; отсутствие файла ошибкой не считается
func (s *Storage) Remove(name string) error {
	if name == "" || name != filepath.Base(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s: %v", ErrRemoveFile, name, err)
	}

	return nil
}

// Path возвращает полный путь к файлу
func (s *Storage) Path(name string) string {
	return filepath.Join(s.dir, filepath.Base(name))
}
