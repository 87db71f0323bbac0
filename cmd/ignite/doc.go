// Command ignite is the IgniteAI command line client. It submits ad
// generation runs, watches them to completion, regenerates scenes, and
// manages history, brand kits, and credit purchases.
package main
