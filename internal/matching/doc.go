// Package matching assigns restaurant records from one provider to records
// from another so that each record participates in at most one pair.
//
// The default strategy is greedy: set A is walked in input order and each
// entity claims its best viable, still-unclaimed partner in set B. Earlier
// entities win contested partners even when a later entity would have scored
// higher; this keeps results stable under reordering of set B and easy to
// explain. The optimal strategy instead solves the maximum-weight bipartite
// assignment over viable pairs with the Hungarian algorithm.
package matching
