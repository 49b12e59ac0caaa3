package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roca12/Proyecto-de-grado/internal/bootstrap"
	"github.com/roca12/Proyecto-de-grado/internal/domain"
	"github.com/roca12/Proyecto-de-grado/internal/domain/entity"
	"github.com/roca12/Proyecto-de-grado/internal/infrastructure/memory"
	"github.com/roca12/Proyecto-de-grado/internal/infrastructure/storage"
	"github.com/roca12/Proyecto-de-grado/pkg/config"
	"github.com/roca12/Proyecto-de-grado/pkg/jwt"
	"github.com/roca12/Proyecto-de-grado/pkg/logger"
)

// fakeBackend responde login, consulta de insumo y uso de insumo.
type fakeBackend struct {
	tipoUsuario string
	token       string // vacío = "tok-cli"
	usos        atomic.Int32
	lastAuth    atomic.Value
}

func (b *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /usuarios/login", func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			IDPersona int64  `json:"idPersona"`
			Password  string `json:"password"`
		}
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in.Password != "secreta" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("Credenciales inválidas"))
			return
		}
		token := b.token
		if token == "" {
			token = "tok-cli"
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"token":       token,
			"idPersona":   in.IDPersona,
			"nombre":      "Ana",
			"apellido":    "Ruiz",
			"tipoUsuario": b.tipoUsuario,
			"idFinca":     7,
		})
	})
	mux.HandleFunc("GET /insumos/4", func(w http.ResponseWriter, r *http.Request) {
		b.lastAuth.Store(r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"idInsumo":4,"nombre":"Abono","unidadMedida":"Kg","cantidadDisponible":10}`))
	})
	mux.HandleFunc("POST /insumos/uso/4/2.5", func(w http.ResponseWriter, r *http.Request) {
		b.usos.Add(1)
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

type cliEnv struct {
	cfg     *config.Config
	backend *fakeBackend
	dir     string
}

func newCLIEnv(t *testing.T, tipoUsuario string) *cliEnv {
	t.Helper()
	b := &fakeBackend{tipoUsuario: tipoUsuario}
	srv := httptest.NewServer(b.handler())
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	return &cliEnv{
		backend: b,
		dir:     dir,
		cfg: &config.Config{
			App:     config.AppConfig{Env: "test", Name: appName, LogLevel: "error"},
			API:     config.APIConfig{BaseURL: srv.URL},
			Session: config.SessionConfig{File: filepath.Join(dir, "session.json")},
			Report:  config.ReportConfig{TopN: 6},
		},
	}
}

// run ejecuta un comando como un proceso nuevo: contenedor y sesión se arman de cero.
func (e *cliEnv) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	a := &cli{
		stdout: &stdout,
		stderr: &stderr,
		stdin:  strings.NewReader(""),
		cfg:    e.cfg,
		log:    logger.Nop(),
	}
	cmd := a.rootCmd()
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	a.close()
	return stdout.String(), stderr.String(), err
}

func (e *cliEnv) passwordFile(t *testing.T, password string) string {
	t.Helper()
	path := filepath.Join(e.dir, "password")
	require.NoError(t, os.WriteFile(path, []byte(password+"\n"), 0o600))
	return path
}

func TestVersion(t *testing.T) {
	e := newCLIEnv(t, "USER")
	out, _, err := e.run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("%s version %s\n", appName, Version), out)
}

func TestLogin_WhoamiUsoLogout(t *testing.T) {
	e := newCLIEnv(t, "USER")

	out, _, err := e.run(t, "login", "--id", "3", "--password-file", e.passwordFile(t, "secreta"))
	require.NoError(t, err)
	assert.Contains(t, out, "Sesión iniciada como Ana Ruiz")
	assert.Contains(t, out, "/menu")
	assert.FileExists(t, e.cfg.Session.File)

	out, _, err = e.run(t, "whoami", "--json")
	require.NoError(t, err)
	var me struct {
		ID      int64  `json:"id"`
		Rol     string `json:"rol"`
		IDFinca int64  `json:"idFinca"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &me))
	assert.Equal(t, int64(3), me.ID)
	assert.Equal(t, "USER", me.Rol)
	assert.Equal(t, int64(7), me.IDFinca)

	out, _, err = e.run(t, "uso", "registrar", "--insumo", "4", "--cantidad", "2.5")
	require.NoError(t, err)
	assert.Contains(t, out, "Uso registrado")
	assert.Equal(t, int32(1), e.backend.usos.Load())
	assert.Equal(t, "Bearer tok-cli", e.backend.lastAuth.Load())

	out, _, err = e.run(t, "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Sesión cerrada")

	_, _, err = e.run(t, "whoami")
	require.Error(t, err)
	assert.Equal(t, exitLogin, exitCode(err))
}

func TestWhoami_TokenVencido(t *testing.T) {
	e := newCLIEnv(t, "USER")
	token, err := jwt.Generate("secreto", 3, "USER", -time.Minute)
	require.NoError(t, err)
	e.backend.token = token

	_, _, err = e.run(t, "login", "--id", "3", "--password-file", e.passwordFile(t, "secreta"))
	require.NoError(t, err)

	out, _, err := e.run(t, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "(expirado: ejecute `aproafa login`)")

	out, _, err = e.run(t, "whoami", "--json")
	require.NoError(t, err)
	var me struct {
		Expirado bool `json:"expirado"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &me))
	assert.True(t, me.Expirado)
}

func TestLogin_CredencialesRechazadas(t *testing.T) {
	e := newCLIEnv(t, "USER")
	_, _, err := e.run(t, "login", "--id", "3", "--password-file", e.passwordFile(t, "otra"))
	require.Error(t, err)

	var remote *domain.RemoteError
	require.True(t, errors.As(err, &remote))
	assert.Equal(t, http.StatusUnauthorized, remote.Status)
	assert.Equal(t, "Credenciales inválidas", remote.Message)
	assert.NoFileExists(t, e.cfg.Session.File)
}

func TestLogin_SinTerminalNiArchivo(t *testing.T) {
	e := newCLIEnv(t, "USER")
	_, _, err := e.run(t, "login", "--id", "3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--password-file")
}

func TestUso_ValidaAntesDeLlamarAlBackend(t *testing.T) {
	e := newCLIEnv(t, "USER")
	_, _, err := e.run(t, "login", "--id", "3", "--password-file", e.passwordFile(t, "secreta"))
	require.NoError(t, err)

	_, _, err = e.run(t, "uso", "registrar", "--insumo", "4", "--cantidad", "abc")
	require.Error(t, err)
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "cantidad", ve.Field)
	assert.Equal(t, exitError, exitCode(err))
	assert.Zero(t, e.backend.usos.Load())
}

func TestVenta_SinSesion(t *testing.T) {
	e := newCLIEnv(t, "USER")
	path := filepath.Join(e.dir, "venta.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"idCliente":5,"metodoPago":"EFECTIVO","detalles":[{"idProduccion":1,"cantidad":3,"precioUnitario":1500}]}`), 0o600))

	_, _, err := e.run(t, "venta", "registrar", "-f", path)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	assert.Equal(t, exitLogin, exitCode(err))
	assert.Contains(t, err.Error(), "aproafa login")
}

func TestReconciliacion_RolSinAcceso(t *testing.T) {
	e := newCLIEnv(t, "USER")
	_, _, err := e.run(t, "login", "--id", "3", "--password-file", e.passwordFile(t, "secreta"))
	require.NoError(t, err)

	_, _, err = e.run(t, "reconciliacion", "listar")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/reconciliaciones")
	assert.Equal(t, exitError, exitCode(err))
}

func TestReconciliacion_AdminSinPendientes(t *testing.T) {
	e := newCLIEnv(t, "ADMIN")
	out, _, err := e.run(t, "login", "--id", "1", "--password-file", e.passwordFile(t, "secreta"))
	require.NoError(t, err)
	assert.Contains(t, out, "/admin-dashboard")

	out, _, err = e.run(t, "rec", "listar")
	require.NoError(t, err)
	assert.Contains(t, out, "No hay ajustes pendientes")
}

func TestReconciliacion_PendienteSobreviveEntreInvocaciones(t *testing.T) {
	e := newCLIEnv(t, "ADMIN")
	_, _, err := e.run(t, "login", "--id", "1", "--password-file", e.passwordFile(t, "secreta"))
	require.NoError(t, err)

	// ajuste que dejó pendiente una venta anterior
	ctx := context.Background()
	journal, err := memory.NewPersistentReconciliationRepo(ctx, storage.NewFileStorage(bootstrap.JournalFile(e.cfg)))
	require.NoError(t, err)
	require.NoError(t, journal.Save(ctx, &entity.ReconciliationItem{
		ID: "rec-1", SagaID: "s-1", Workflow: "venta", ResourceType: entity.ResourceProduccion,
		ResourceID: 9, Previous: decimal.NewFromInt(10), Target: decimal.NewFromInt(7), IDFinca: 7,
	}))

	out, _, err := e.run(t, "rec", "listar", "--json")
	require.NoError(t, err)
	var items []struct {
		ID         string `json:"id"`
		ResourceID int64  `json:"resourceId"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "rec-1", items[0].ID)
	assert.Equal(t, int64(9), items[0].ResourceID)

	out, _, err = e.run(t, "rec", "descartar", "rec-1")
	require.NoError(t, err)
	assert.Contains(t, out, "rec-1 descartado")

	out, _, err = e.run(t, "rec", "listar")
	require.NoError(t, err)
	assert.Contains(t, out, "No hay ajustes pendientes")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitOK, exitCode(nil))
	assert.Equal(t, exitError, exitCode(errors.New("x")))
	assert.Equal(t, exitLogin, exitCode(domain.ErrSessionExpired))
	assert.Equal(t, exitLogin, exitCode(fmt.Errorf("envuelto: %w", domain.ErrUnauthenticated)))
	assert.Equal(t, exitPartial, exitCode(&domain.PartialConsistencyError{SagaID: "s-1", Failed: []string{"produccion 1"}}))
	// movimiento registrado pero la sesión expiró en un ajuste: hay que volver a entrar
	assert.Equal(t, exitLogin, exitCode(errors.Join(&domain.PartialConsistencyError{SagaID: "s-2"}, domain.ErrSessionExpired)))
}
