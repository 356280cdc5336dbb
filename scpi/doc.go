// Package scpi provides the command channel to the instrument's command interpreter.
//
// The instrument accepts plain text commands in its native grammar, e.g.
// "TSCO5:WIND:BEGIN:DELAY 1000" or "INPU1:COUN?", over a ZeroMQ request/reply socket.
// Every command is answered by exactly one reply, so the channel is strictly synchronous:
// one command in flight, Exec blocks until its reply arrives.
//
// Commander is the abstraction used by the device handles. Client implements it on top of
// a ZeroMQ REQ socket:
//
//	cfg, err := scpi.NewConnectionConfig("192.168.1.10", scpi.WithDialTimeout(3*time.Second))
//	if err != nil {
//		return err
//	}
//	client, err := scpi.Dial(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	count, err := client.Exec("INPU1:COUN?")
//
// The channel has no reply timeout and never retries or reconnects; callers that need
// resilience wrap the Commander.
package scpi
