/*
Package aggregate combines several metadata containers behind one.

Delegates are kept in an ordered list. The order is the read precedence:

	agg := aggregate.New([]aggregate.Delegate{
	    aggregate.ReadWrite(primary),   // consulted first
	    aggregate.ReadOnly(fallback),   // read when primary has nothing
	    aggregate.WriteOnly(audit),     // receives every write, never read
	})

Get walks the read-capable delegates and returns the first present value.
Set and CreateRoot are broadcast to every write-capable delegate; a failure
stops the broadcast and leaves earlier delegates written.

GetRoot and SetRoot always return an errors.UnsupportedError. Callers that
need roots should walk Delegates() instead.
*/
package aggregate
