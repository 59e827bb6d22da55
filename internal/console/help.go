package console

const helpText = `Sequencer console commands
Commands and word arguments match on their first letter, case insensitive.
  step <0-3> tx <ms>     Tx delay of a step, 0 to 255 ms
  step <0-3> rx <ms>     Rx delay of a step, 0 to 255 ms
  step <0-3> open        relay open on Rx
  step <0-3> closed      relay closed on Rx
  rts enable|disable     RTS line keys the sequencer
  cts enable|disable     assert CTS once transmitting
  timeout <s>            Tx timeout in seconds, 0 disables
  display                print the working configuration
  Init                   spelled out, restore the defaults
  Boot                   spelled out, reload the stored configuration and restart
  help                   print this text
  quit                   leave the console
Bench driver only:
  line key|rts on|off    drive a simulated input line
Changes are written to the store immediately.
Examples:
  s 0 t 100              step 0 tx delay 100 ms
  s 3 o                  step 3 open on Rx
  r e                    RTS enable
  t 0                    Tx timeout disabled
`
