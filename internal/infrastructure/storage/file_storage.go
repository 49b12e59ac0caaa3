package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStorage área clave-valor en un archivo JSON (equivalente al almacenamiento local del navegador).
// Cada Write reemplaza el archivo de forma atómica: un lector nunca ve una escritura parcial.
type FileStorage struct {
	path string
}

// NewFileStorage no toca el disco hasta el primer Read/Write.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// Path ruta del archivo.
func (s *FileStorage) Path() string { return s.path }

// Read devuelve el área; un archivo inexistente es un área vacía.
func (s *FileStorage) Read(_ context.Context) (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("leyendo %s: %w", s.path, err)
	}
	values := map[string]string{}
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("decodificando %s: %w", s.path, err)
	}
	return values, nil
}

// Write escribe en un temporal del mismo directorio, fsync, rename y sync del directorio.
// El archivo queda con modo 0600: contiene el token.
func (s *FileStorage) Write(_ context.Context, values map[string]string) error {
	if values == nil {
		values = map[string]string{}
	}
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("serializando sesión: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creando %s: %w", dir, err)
	}

	tmp := s.path + ".tmp"
	file, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creando temporal: %w", err)
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(tmp)
		return fmt.Errorf("escribiendo temporal: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tmp)
		return fmt.Errorf("sync temporal: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("cerrando temporal: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("reemplazando %s: %w", s.path, err)
	}

	if parent, err := os.Open(dir); err == nil {
		parent.Sync()
		parent.Close()
	}
	return nil
}
