/*
Package wordgen builds character-level Markov models from word lists and
samples pronounceable, non-dictionary strings from them.

A Corpus is loaded from a newline-delimited word list, a Model of a chosen
order is built from it, and Generate walks the resulting transition table to
synthesize new strings. Trained models can be persisted to a SQLite database
through a Store, or exported to JSON for transfer between machines.

Randomness is always supplied by the caller through the Source interface, so
security-sensitive callers can use CryptoSource while bulk generation can use
a seeded math/rand/v2 generator.
*/
package wordgen
