// Package providers declares the built-in geocoding services.
//
// Each service is a provider.Descriptor holding one provider.Adapter per
// supported method: the endpoint, literal parameters, a parameter builder
// and the field map that normalizes the answer. Reverse adapters reuse the
// forward field map of the same service. Registry returns the union of all
// of them.
//
// Adapters never perform I/O themselves; the dispatcher runs them through
// the shared request pipeline.
package providers
