package integration

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/exec"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/doodlesbykumbi/coresecurity-in-go/pkg/bootstrap"
	"github.com/doodlesbykumbi/coresecurity-in-go/pkg/config"
	"github.com/doodlesbykumbi/coresecurity-in-go/pkg/credential"
	"github.com/doodlesbykumbi/coresecurity-in-go/pkg/metrics"
	"github.com/doodlesbykumbi/coresecurity-in-go/pkg/server"
	"github.com/doodlesbykumbi/coresecurity-in-go/pkg/server/endpoints"
)

// ServerInstance represents a running server for a single scenario
type ServerInstance struct {
	Server    *server.Server
	Seeder    *bootstrap.Seeder
	ServerURL string

	cancel        context.CancelFunc
	done          chan error
	serverProcess *exec.Cmd
}

// StartServer starts a server that seeds on ready, in-process or from the
// binary depending on how the suite was started
func StartServer(tc *TestContext) (*ServerInstance, error) {
	if tc.InlineMode {
		return startInlineServerInstance(tc)
	}
	return startBinaryServerInstance(tc)
}

func startInlineServerInstance(tc *TestContext) (*ServerInstance, error) {
	cfg := &config.Config{
		SeedOnStartup: true,
		SeedAccessIPs: bootstrap.DefaultAccessIPs,
		BcryptCost:    bcrypt.MinCost,
	}

	s := server.NewServer(cfg, tc.DB, metrics.New(), "127.0.0.1", "0")
	seeder, err := bootstrap.New(s.Store, credential.NewBcryptHasher(cfg.BcryptCost), bootstrap.Options{
		AccessIPs: cfg.SeedAccessIPs,
		Recorder:  s.Metrics,
		Source:    "integration",
	})
	if err != nil {
		return nil, err
	}
	s.OnReady(seeder.HandleReady)
	endpoints.RegisterAll(s)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("failed to create listener: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	instance := &ServerInstance{
		Server:    s,
		Seeder:    seeder,
		ServerURL: "http://" + listener.Addr().String(),
		cancel:    cancel,
		done:      make(chan error, 1),
	}

	go func() {
		instance.done <- s.Serve(ctx, listener)
	}()

	if err := waitForServer(instance.ServerURL, 10*time.Second); err != nil {
		instance.Stop()
		return nil, fmt.Errorf("server failed to become ready: %w", err)
	}
	return instance, nil
}

func startBinaryServerInstance(tc *TestContext) (*ServerInstance, error) {
	port, err := freePort()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	cmd := exec.CommandContext(ctx, tc.BinaryPath, "server", "--no-migrate", "-b", "127.0.0.1", "-p", strconv.Itoa(port))
	cmd.Env = append(os.Environ(),
		"DATABASE_URL="+tc.DatabaseURL,
		"CORESEC_SEED_ON_STARTUP=true",
		"CORESEC_BCRYPT_COST="+strconv.Itoa(bcrypt.MinCost),
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to start binary: %w", err)
	}

	instance := &ServerInstance{
		ServerURL:     fmt.Sprintf("http://127.0.0.1:%d", port),
		cancel:        cancel,
		serverProcess: cmd,
	}

	if err := waitForServer(instance.ServerURL, 30*time.Second); err != nil {
		instance.Stop()
		return nil, fmt.Errorf("server failed to become ready: %w", err)
	}
	return instance, nil
}

// Stop shuts down the server instance
func (si *ServerInstance) Stop() {
	if si.cancel != nil {
		si.cancel()
	}
	if si.done != nil {
		select {
		case <-si.done:
		case <-time.After(15 * time.Second):
		}
	}
	if si.serverProcess != nil && si.serverProcess.Process != nil {
		_ = si.serverProcess.Process.Kill()
		_ = si.serverProcess.Wait()
	}
}

// Ready fires the ready handler again, as a repeated startup signal would
func (si *ServerInstance) Ready(ctx context.Context) error {
	if si.Seeder == nil {
		return errors.New("ready signal needs an inline server")
	}
	return si.Seeder.HandleReady(ctx)
}

func freePort() (int, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, err
	}
	defer func() { _ = l.Close() }()
	return l.Addr().(*net.TCPAddr).Port, nil
}
