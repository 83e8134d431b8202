// Package hmm implements PhonemeHmm: a left-to-right hidden Markov
// model whose states emit observations through a gmm.Mixture. All
// recursions (Forward, Backward, Viterbi, Baum-Welch) run in log
// domain via logsumexp for numerical stability over long sequences.
package hmm
