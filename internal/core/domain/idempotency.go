package domain

import "strconv"

// RefIDForCharge builds the refId supplied to ProcessorClient for the initial
// charge/authorize call; the processor treats equal refIds for the same
// operation as idempotent.
func RefIDForCharge(externalID string) string {
	return externalID
}

// RefIDForRefund builds the refId supplied to ProcessorClient for a refund
// call. Each refund on a Payment gets a distinct, stable refId so that a
// processor-side retry of the same logical refund is idempotent.
func RefIDForRefund(externalID string, refundSequence int) string {
	return externalID + ":refund:" + strconv.Itoa(refundSequence)
}
