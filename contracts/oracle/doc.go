/*
Package oracle implements Sibyl oracle contract, a ledger of predictions
kept by a single authority.

The authority registers free-text statements (up to 280 bytes) with a
confidence score and a deadline given in hours. After the deadline every
prediction can be resolved once, as correct or incorrect. The contract counts
registered and correct predictions and derives accuracy from them: correct
predictions multiplied by 100 and divided by all registered ones, rounded
down. Unresolved predictions count against accuracy.

All timestamps are block timestamps in seconds.

# Contract notifications

PredictionCreated notification. This notification is produced when the
authority registers a new prediction.

	PredictionCreated:
	  - name: id
	    type: Integer
	  - name: statement
	    type: String
	  - name: confidence
	    type: Integer
	  - name: deadline
	    type: Integer

PredictionResolved notification. This notification is produced when the
authority resolves a prediction. Accuracy is the value after the resolution.

	PredictionResolved:
	  - name: id
	    type: Integer
	  - name: outcome
	    type: Boolean
	  - name: accuracy
	    type: Integer
*/
package oracle

/*
Contract storage model.

Current conventions:
 <id>: little-endian two's complement prediction number padded with zero
 bytes to 8 bytes

# Summary
Key-value storage format:
 - 'oracle' -> std.Serialize(Registry)
   authority account and prediction counters
 - 'prediction' + <id> -> std.Serialize(Prediction)
   registered predictions, ids start from 1

# Records
Records are never deleted. Every record kind has a fixed space reserved for
it: 44 bytes for the registry and 319 bytes for a prediction (280 of them for
the statement). A statement that does not fit fails the whole transaction.
*/
