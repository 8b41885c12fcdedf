package hermestest

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"testing"

	"github.com/ory/dockertest"
)

// DockerService describes a container a test needs and how to build a client
// for it once it is reachable.
type DockerService[T any] struct {
	Image        string
	Tag          string
	InternalPort int
	Environment  map[string]string
	Builder      func(host string, port int) (T, error)
}

func (service DockerService[T]) env() []string {
	env := []string{}
	for k, v := range service.Environment {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}

	return env
}

// StartDockerService runs the container for the lifetime of the test and
// retries Builder until it succeeds. It skips the test in short mode.
func StartDockerService[T any](t *testing.T, service DockerService[T]) T {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping long-running test in short mode.")
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("Could not construct pool: %s", err)
	}

	if err := pool.Client.Ping(); err != nil {
		t.Fatalf("Could not connect to Docker: %s", err)
	}

	resource, err := pool.Run(service.Image, service.Tag, service.env())
	if err != nil {
		t.Fatalf("Could not start resource: %s", err)
	}

	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			t.Fatalf("Could not purge resource: %s", err)
		}
	})

	host := "localhost"
	if dockerURL := os.Getenv("DOCKER_HOST"); dockerURL != "" {
		u, err := url.Parse(dockerURL)
		if err != nil {
			t.Fatalf("Error parsing docker URL: %s", err)
		}

		if u.Hostname() != "" {
			host = u.Hostname()
		}
	}

	port, err := strconv.Atoi(resource.GetPort(fmt.Sprintf("%d/tcp", service.InternalPort)))
	if err != nil {
		t.Fatalf("Error parsing docker port: %s", err)
	}

	var client T
	if err := pool.Retry(func() error {
		var err error
		client, err = service.Builder(host, port)

		return err
	}); err != nil {
		t.Fatalf("Could not connect to %s: %s", service.Image, err)
	}

	return client
}
