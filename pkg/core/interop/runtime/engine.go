package runtime

import (
	"errors"
	"fmt"

	"github.com/keelvm/keel/pkg/core/interop"
	"github.com/keelvm/keel/pkg/core/state"
	"github.com/keelvm/keel/pkg/util"
	"github.com/keelvm/keel/pkg/vm/stackitem"
	"go.uber.org/zap"
)

const (
	// MaxEventNameLen is the maximum length of a name for an event.
	MaxEventNameLen = 32
	// MaxNotificationSize is the maximum size of a serialized notification
	// payload or a log message.
	MaxNotificationSize = 1024
	// platformName is pushed by the platform query.
	platformName = "KEEL"
)

// GetExecutingScriptHash returns the executing script hash.
func GetExecutingScriptHash(ic *interop.Context) error {
	ic.VM.Estack().PushVal(ic.VM.GetCurrentScriptHash().BytesBE())
	return nil
}

// GetCallingScriptHash returns the calling script hash.
func GetCallingScriptHash(ic *interop.Context) error {
	ic.VM.Estack().PushVal(ic.VM.GetCallingScriptHash().BytesBE())
	return nil
}

// GetEntryScriptHash returns the entry script hash.
func GetEntryScriptHash(ic *interop.Context) error {
	ic.VM.Estack().PushVal(ic.VM.GetEntryScriptHash().BytesBE())
	return nil
}

// Platform returns the name of the platform.
func Platform(ic *interop.Context) error {
	ic.VM.Estack().PushVal([]byte(platformName))
	return nil
}

// GetTrigger returns the script trigger.
func GetTrigger(ic *interop.Context) error {
	ic.VM.Estack().PushVal(int(ic.Trigger))
	return nil
}

// GetTime returns the timestamp of the block being processed.
func GetTime(ic *interop.Context) error {
	ic.VM.Estack().PushVal(int64(ic.Block.Timestamp))
	return nil
}

// GasLeft returns the remaining amount of GAS, -1 if the execution is not
// limited.
func GasLeft(ic *interop.Context) error {
	if ic.VM.GasLimit == -1 {
		ic.VM.Estack().PushVal(int64(-1))
	} else {
		ic.VM.Estack().PushVal(ic.VM.GasLimit - ic.VM.GasConsumed())
	}
	return nil
}

// GetInvocationCounter returns how many times the current contract has been
// activated during this execution. It is an error to query the counter for
// a script that was never activated.
func GetInvocationCounter(ic *interop.Context) error {
	count, ok := ic.VM.Invocations[ic.VM.GetCurrentScriptHash()]
	if !ok {
		return errors.New("current contract wasn't invoked from others")
	}
	ic.VM.Estack().PushVal(count)
	return nil
}

// GetScriptContainer returns the transaction the current execution runs in.
func GetScriptContainer(ic *interop.Context) error {
	if ic.Tx == nil {
		return errors.New("no script container")
	}
	ic.VM.Estack().PushItem(ic.Tx.ToStackItem())
	return nil
}

// Notify appends an event to the per-execution notification ledger. The
// payload must be serializable and fit into the size ceiling, the event is
// recorded with the hash of the emitting script.
func Notify(ic *interop.Context) error {
	name := ic.VM.Estack().Pop().String()
	elem := ic.VM.Estack().Pop()
	args := elem.Array()
	if len(name) > MaxEventNameLen {
		return fmt.Errorf("event name must be less than %d", MaxEventNameLen)
	}
	// It has to be serializable, otherwise we either have some broken
	// (recursive) structure inside or an interop item that can't be used
	// outside of the interop subsystem anyway.
	bytes, err := stackitem.SerializeLimited(elem.Item(), MaxNotificationSize)
	if err != nil {
		return fmt.Errorf("bad notification: %w", err)
	}
	if len(bytes) > MaxNotificationSize {
		return fmt.Errorf("notification size shouldn't exceed %d", MaxNotificationSize)
	}
	curHash := ic.VM.GetCurrentScriptHash()
	ic.AddNotification(curHash, name, stackitem.DeepCopy(stackitem.NewArray(args)).(*stackitem.Array))
	return nil
}

// Log logs the message passed.
func Log(ic *interop.Context) error {
	msg := ic.VM.Estack().Pop().String()
	if len(msg) > MaxNotificationSize {
		return fmt.Errorf("message length shouldn't exceed %v", MaxNotificationSize)
	}
	ic.Log.Info("runtime log",
		zap.Stringer("script", ic.VM.GetCurrentScriptHash()),
		zap.String("logs", fmt.Sprintf("%q", msg)))
	return nil
}

// GetNotifications returns notifications emitted so far in this execution,
// optionally filtered by the emitting script hash.
func GetNotifications(ic *interop.Context) error {
	item := ic.VM.Estack().Pop().Item()
	notifications := ic.Notifications
	if _, ok := item.(stackitem.Null); !ok {
		b, err := item.TryBytes()
		if err != nil {
			return err
		}
		u, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return err
		}
		notifications = []state.NotificationEvent{}
		for i := range ic.Notifications {
			if ic.Notifications[i].ScriptHash.Equals(u) {
				notifications = append(notifications, ic.Notifications[i])
			}
		}
	}
	arr := stackitem.NewArray(make([]stackitem.Item, 0, len(notifications)))
	for i := range notifications {
		ev := notifications[i]
		arr.Append(ev.ToStackItem())
	}
	ic.VM.Estack().PushItem(arr)
	return nil
}
