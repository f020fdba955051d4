// Package provider implements the adapter framework that puts many unrelated
// geocoding services behind one request shape.
//
// A Descriptor names a provider and lists its Adapters, one per Method. An
// Adapter is data: endpoint, literal default parameters, a ParamBuilder that
// turns a Query into request parameters, and a result.FieldMap that turns the
// answer into canonical fields. The Registry is the immutable union of all
// descriptors.
//
// The Dispatcher validates a request before any network I/O (provider,
// method, location shape, options, credential, parameter builder) and then
// runs it:
//
//	d := provider.NewDispatcher(provider.DispatcherConfig{
//	    Registry: providers.Registry(),
//	    Pipeline: provider.NewPipeline(client, resilience.NewLimiterSet(nil)),
//	})
//	res, err := d.Dispatch(ctx, "Ottawa, Ontario", "osm", "geocode", provider.Options{})
//
// Validation failures are returned as *errors.AppError. Provider and network
// failures are captured in the result with Status == result.StatusError.
//
// # Middleware
//
// Every layer of a call shares the RequestResponse[I, O] shape, so the
// pipeline and the dispatcher compose it with Adapt and Chain:
//
//	wrapped := provider.Chain(
//	    provider.WithLogging[In, Out](log),
//	    provider.WithMetrics[In, Out](recorder),
//	    provider.WithTracing[In, Out]("geocode"),
//	)(inner)
//
// WithRateLimit waits on a shared token bucket and never drops a call.
package provider
