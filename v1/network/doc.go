// Package network reconciles a container's membership in the sandbox docker
// network.
//
// Operators re-run start and stop freely, so the reconciler treats repeated
// operations as no-ops: attaching an already-attached container returns
// AlreadyAttached, detaching a non-member returns AlreadyDetached, and
// neither is an error. Current membership is inspected before every
// operation; races with concurrent processes are absorbed by mapping the
// engine's "already exists in network" and "is not connected to network"
// errors onto the no-op results.
//
//	reconciler := network.NewReconciler(dockerClient, log)
//	result, err := reconciler.Attach(ctx, "devcontainer", "kafka-sandbox-net")
//
// Reconcile failures are warnings at the bootstrap level, never fatal.
package network
