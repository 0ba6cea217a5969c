// Package live streams a server-side DOM to browsers over WebSocket.
//
// Every connection gets its own session: an event loop, a dom.Document and a
// ui.Runtime with the root descriptor mounted into the document body. The
// server sends the initial tree, then one patch message per render pass with
// the mutations the pass journaled. The browser client (live.js) replays
// them and sends back the events the server listens for.
//
// # Protocol
//
// JSON text frames. Server to client:
//
//	{"type":"init","session":"01J...","seq":1,"tree":{...}}
//	{"type":"patch","seq":2,"mutations":[{"op":"text","node":12,"value":"3"}]}
//	{"type":"error","code":"E062","message":"Event target not found"}
//
// Client to server:
//
//	{"type":"event","node":12,"event":"input","value":"Asha"}
//
// Sessions do not survive a reconnect; the client reloads the page.
package live
