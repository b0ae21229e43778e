package interopnames

// Names of all used interops.
const (
	SystemBlockchainGetBlock             = "System.Blockchain.GetBlock"
	SystemBlockchainGetContract          = "System.Blockchain.GetContract"
	SystemBlockchainGetHeight            = "System.Blockchain.GetHeight"
	SystemBlockchainGetTransaction       = "System.Blockchain.GetTransaction"
	SystemBlockchainGetTransactionHeight = "System.Blockchain.GetTransactionHeight"
	SystemContractCall                   = "System.Contract.Call"
	SystemContractCreateStandardAccount  = "System.Contract.CreateStandardAccount"
	SystemContractDestroy                = "System.Contract.Destroy"
	SystemContractGetCallFlags           = "System.Contract.GetCallFlags"
	SystemCryptoVerifyWithECDsaSecp256k1 = "System.Crypto.VerifyWithECDsaSecp256k1"
	SystemCryptoVerifyWithECDsaSecp256r1 = "System.Crypto.VerifyWithECDsaSecp256r1"
	SystemIteratorCreate                 = "System.Iterator.Create"
	SystemIteratorNext                   = "System.Iterator.Next"
	SystemIteratorValue                  = "System.Iterator.Value"
	SystemRuntimeCheckWitness            = "System.Runtime.CheckWitness"
	SystemRuntimeDeserialize             = "System.Runtime.Deserialize"
	SystemRuntimeGasLeft                 = "System.Runtime.GasLeft"
	SystemRuntimeGetCallingScriptHash    = "System.Runtime.GetCallingScriptHash"
	SystemRuntimeGetEntryScriptHash      = "System.Runtime.GetEntryScriptHash"
	SystemRuntimeGetExecutingScriptHash  = "System.Runtime.GetExecutingScriptHash"
	SystemRuntimeGetInvocationCounter    = "System.Runtime.GetInvocationCounter"
	SystemRuntimeGetNotifications        = "System.Runtime.GetNotifications"
	SystemRuntimeGetScriptContainer      = "System.Runtime.GetScriptContainer"
	SystemRuntimeGetTime                 = "System.Runtime.GetTime"
	SystemRuntimeGetTrigger              = "System.Runtime.GetTrigger"
	SystemRuntimeLog                     = "System.Runtime.Log"
	SystemRuntimeNotify                  = "System.Runtime.Notify"
	SystemRuntimePlatform                = "System.Runtime.Platform"
	SystemRuntimeSerialize               = "System.Runtime.Serialize"
	SystemStorageAsReadOnly              = "System.Storage.AsReadOnly"
	SystemStorageDelete                  = "System.Storage.Delete"
	SystemStorageFind                    = "System.Storage.Find"
	SystemStorageGet                     = "System.Storage.Get"
	SystemStorageGetContext              = "System.Storage.GetContext"
	SystemStorageGetReadOnlyContext      = "System.Storage.GetReadOnlyContext"
	SystemStoragePut                     = "System.Storage.Put"
	SystemStoragePutEx                   = "System.Storage.PutEx"
)

var names = []string{
	SystemBlockchainGetBlock,
	SystemBlockchainGetContract,
	SystemBlockchainGetHeight,
	SystemBlockchainGetTransaction,
	SystemBlockchainGetTransactionHeight,
	SystemContractCall,
	SystemContractCreateStandardAccount,
	SystemContractDestroy,
	SystemContractGetCallFlags,
	SystemCryptoVerifyWithECDsaSecp256k1,
	SystemCryptoVerifyWithECDsaSecp256r1,
	SystemIteratorCreate,
	SystemIteratorNext,
	SystemIteratorValue,
	SystemRuntimeCheckWitness,
	SystemRuntimeDeserialize,
	SystemRuntimeGasLeft,
	SystemRuntimeGetCallingScriptHash,
	SystemRuntimeGetEntryScriptHash,
	SystemRuntimeGetExecutingScriptHash,
	SystemRuntimeGetInvocationCounter,
	SystemRuntimeGetNotifications,
	SystemRuntimeGetScriptContainer,
	SystemRuntimeGetTime,
	SystemRuntimeGetTrigger,
	SystemRuntimeLog,
	SystemRuntimeNotify,
	SystemRuntimePlatform,
	SystemRuntimeSerialize,
	SystemStorageAsReadOnly,
	SystemStorageDelete,
	SystemStorageFind,
	SystemStorageGet,
	SystemStorageGetContext,
	SystemStorageGetReadOnlyContext,
	SystemStoragePut,
	SystemStoragePutEx,
}
