// Package reconcile brings the proxy layers toward a single intent.
//
// A pass moves Pending -> Applying -> Committed or PartiallyFailed. Layers
// are applied in the registry's declared order. A failed layer is recorded
// and the pass continues: the layers are independent, so nothing is rolled
// back. Every pass carries a UUID that appears on all of its log lines.
package reconcile
