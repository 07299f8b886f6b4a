package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"syscall"

	"github.com/Aleph-Alpha/kafka-sandbox/v1/bootstrap"
	"github.com/Aleph-Alpha/kafka-sandbox/v1/environment"
	"github.com/Aleph-Alpha/kafka-sandbox/v1/generator"
	"github.com/Aleph-Alpha/kafka-sandbox/v1/kafka"
	"github.com/Aleph-Alpha/kafka-sandbox/v1/logger"
	"github.com/Aleph-Alpha/kafka-sandbox/v1/network"
	"github.com/Aleph-Alpha/kafka-sandbox/v1/publisher"
	"github.com/Aleph-Alpha/kafka-sandbox/v1/readiness"
	"github.com/Aleph-Alpha/kafka-sandbox/v1/schema_registry"
	"go.uber.org/fx"
)

const usage = `kafka-sandbox manages a local Kafka + schema registry sandbox.

Environment commands:
  start                      bring the sandbox up and provision topics/schemas
  stop                       stop the sandbox container (state survives)
  restart                    stop, then start
  status                     report container state and service reachability
  cleanup                    destroy the container, its volumes and the network

Provisioning commands:
  topic <name>               idempotently create one topic
  schema <subject> <file>    idempotently register one Avro schema

Publishing commands:
  sample [event-type] [user-id]   publish one synthetic message
  multiple [count]                publish a batch of synthetic messages
  interactive                     read "key|value" lines from stdin ("quit" ends)
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "kafka-sandbox: %v\n", err)
		os.Exit(1)
	}
}

// app bundles the components the command handlers need, populated out of the
// fx container.
type app struct {
	log          *logger.Logger
	manager      *environment.Manager
	orchestrator *bootstrap.Orchestrator
	provisioner  *kafka.Provisioner
	kafkaClient  *kafka.KafkaClient
	registry     *schema_registry.Client
	driver       *generator.Driver
}

func run(args []string) error {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("missing command")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := loadConfig()

	var a app
	fxApp := fx.New(
		fx.NopLogger,
		logger.FXModule,
		readiness.FXModule,
		kafka.FXModule,
		schema_registry.FXModule,
		network.FXModule,
		environment.FXModule,
		publisher.FXModule,
		generator.FXModule,
		bootstrap.FXModule,
		fx.Provide(
			func() logger.Config {
				return logger.Config{Level: cfg.logLevel, ServiceName: "kafka-sandbox", Console: true}
			},
			func(log *logger.Logger) readiness.Config {
				return readiness.Config{
					Interval:    cfg.readinessInterval,
					MaxAttempts: cfg.readinessMaxAttempts,
					Logger:      log,
				}
			},
			func(log *logger.Logger) kafka.Config {
				return kafka.Config{
					Brokers: cfg.brokers,
					TLS:     cfg.tls,
					SASL:    cfg.sasl,
					Logger:  log,
				}
			},
			func() schema_registry.Config {
				return schema_registry.Config{
					URL:      cfg.registryURL,
					Username: cfg.registryUser,
					Password: cfg.registryPassword,
				}
			},
			func(log *logger.Logger) environment.Config {
				return environment.Config{
					ContainerName: cfg.containerName,
					NetworkName:   cfg.networkName,
					KafkaPort:     cfg.kafkaPort,
					RegistryPort:  cfg.registryPort,
					Logger:        log,
				}
			},
			func(log *logger.Logger) publisher.Config {
				return publisher.Config{Topic: cfg.topic, Logger: log}
			},
			func(log *logger.Logger) generator.Config {
				return generator.Config{
					BatchDelay:  cfg.batchDelay,
					StopOnError: cfg.stopOnError,
					Logger:      log,
				}
			},
			func(log *logger.Logger) bootstrap.Config {
				return bootstrap.Config{
					DevContainerName: cfg.devContainer,
					NetworkName:      cfg.networkName,
					Logger:           log,
				}
			},
		),
		fx.Populate(
			&a.log,
			&a.manager,
			&a.orchestrator,
			&a.provisioner,
			&a.kafkaClient,
			&a.registry,
			&a.driver,
		),
	)
	if err := fxApp.Err(); err != nil {
		return err
	}
	if err := fxApp.Start(ctx); err != nil {
		return err
	}
	defer fxApp.Stop(context.Background())

	return dispatch(ctx, &a, args)
}

func dispatch(ctx context.Context, a *app, args []string) error {
	command, rest := args[0], args[1:]

	switch command {
	case "start":
		return cmdStart(ctx, a)
	case "stop":
		return cmdStop(ctx, a)
	case "restart":
		if err := cmdStop(ctx, a); err != nil {
			return err
		}
		return cmdStart(ctx, a)
	case "status":
		return cmdStatus(ctx, a)
	case "cleanup":
		return cmdCleanup(ctx, a)
	case "topic":
		if len(rest) != 1 {
			return fmt.Errorf("usage: topic <name>")
		}
		return cmdTopic(ctx, a, rest[0])
	case "schema":
		if len(rest) != 2 {
			return fmt.Errorf("usage: schema <subject> <file>")
		}
		return cmdSchema(ctx, a, rest[0], rest[1])
	case "sample":
		eventType, userID := "", ""
		if len(rest) > 0 {
			eventType = rest[0]
		}
		if len(rest) > 1 {
			userID = rest[1]
		}
		return a.driver.Single(ctx, eventType, userID)
	case "multiple":
		count := 10
		if len(rest) > 0 {
			n, err := strconv.Atoi(rest[0])
			if err != nil || n <= 0 {
				return fmt.Errorf("usage: multiple [count]")
			}
			count = n
		}
		return cmdMultiple(ctx, a, count)
	case "interactive":
		return cmdInteractive(ctx, a)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func cmdStart(ctx context.Context, a *app) error {
	outcome, err := a.manager.Start(ctx)
	if err != nil {
		return err
	}
	endpoints := a.manager.Endpoints()
	fmt.Printf("container: %s\n", outcome)
	fmt.Printf("broker: %s, registry: %s\n", endpoints.Brokers[0], endpoints.RegistryURL)

	result, err := a.orchestrator.Run(ctx)
	printBootstrapResult(result)
	return err
}

func cmdStop(ctx context.Context, a *app) error {
	a.orchestrator.Teardown(ctx)
	outcome, err := a.manager.Stop(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("container: %s\n", outcome)
	return nil
}

func cmdStatus(ctx context.Context, a *app) error {
	status, err := a.manager.Status(ctx, a.kafkaClient.Probe, a.registry.Probe)
	if err != nil {
		return err
	}
	fmt.Printf("container:       %s (%s)\n", status.ContainerName, status.State)
	fmt.Printf("broker ready:    %t\n", status.BrokerReady)
	fmt.Printf("registry ready:  %t\n", status.RegistryReady)
	return nil
}

func cmdCleanup(ctx context.Context, a *app) error {
	a.orchestrator.Teardown(ctx)
	if err := a.manager.Cleanup(ctx); err != nil {
		return err
	}
	fmt.Println("sandbox removed")
	return nil
}

func cmdTopic(ctx context.Context, a *app, name string) error {
	outcome, err := a.provisioner.EnsureTopic(ctx, kafka.TopicSpec{
		Name:        name,
		Partitions:  1,
		Replication: 1,
	})
	if err != nil {
		return err
	}
	fmt.Printf("topic %s: %s\n", name, outcome)
	return nil
}

func cmdSchema(ctx context.Context, a *app, subject, file string) error {
	doc, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("reading schema file: %w", err)
	}
	result, err := a.registry.EnsureSchema(ctx, subject, string(doc), "")
	if err != nil {
		return err
	}
	if result.AlreadyExisted {
		fmt.Printf("schema %s: already registered (id=%d version=%d)\n", subject, result.ID, result.Version)
	} else {
		fmt.Printf("schema %s: registered (id=%d version=%d)\n", subject, result.ID, result.Version)
	}
	return nil
}

func cmdMultiple(ctx context.Context, a *app, count int) error {
	report, err := a.driver.Batch(ctx, count)
	printReport(report)
	if err != nil {
		return err
	}
	if report.Failed > 0 {
		return fmt.Errorf("%d of %d publishes failed", report.Failed, report.Attempted)
	}
	return nil
}

func cmdInteractive(ctx context.Context, a *app) error {
	fmt.Println(`enter one record per line as <key-json>|<value-json>; "quit" or "exit" ends`)
	report, err := a.driver.Interactive(ctx, os.Stdin)
	printReport(report)
	if err != nil {
		return err
	}
	if report.Failed > 0 {
		return fmt.Errorf("%d of %d publishes failed", report.Failed, report.Attempted)
	}
	return nil
}

func printReport(report generator.Report) {
	fmt.Printf("attempted=%d succeeded=%d failed=%d\n", report.Attempted, report.Succeeded, report.Failed)
	for _, err := range report.Errors {
		fmt.Fprintf(os.Stderr, "  - %v\n", err)
	}
}

func printBootstrapResult(result bootstrap.Result) {
	for _, name := range sortedKeys(result.Topics) {
		fmt.Printf("topic %s: %s\n", name, result.Topics[name])
	}
	for _, subject := range sortedKeys(result.Schemas) {
		ensured := result.Schemas[subject]
		fmt.Printf("schema %s: id=%d version=%d\n", subject, ensured.ID, ensured.Version)
	}
	for _, subject := range sortedKeys(result.SchemaErrors) {
		fmt.Fprintf(os.Stderr, "schema %s: %v\n", subject, result.SchemaErrors[subject])
	}
	if result.NetworkResult != "" {
		fmt.Printf("devcontainer: %s\n", result.NetworkResult)
	}
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
